package summary

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTopic is returned for topics outside the fixed set.
var ErrUnknownTopic = errors.New("summary: unknown topic")

// Topic keys one block of static explainer text.
type Topic string

const (
	TopicABTest           Topic = "ab-test"
	TopicControlVsVariant Topic = "control-vs-variant"
	TopicConversionRate   Topic = "conversion-rate"
	TopicPValue           Topic = "p-value"
)

var topicTitles = map[Topic]string{
	TopicABTest:           "What is an A/B test?",
	TopicControlVsVariant: "Control vs Variant",
	TopicConversionRate:   "What is conversion rate?",
	TopicPValue:           "What is a p-value?",
}

var topicBodies = map[Topic]string{
	TopicABTest: `An A/B test is a controlled experiment that compares two versions of a
product experience. Visitors are randomly split into two groups: one sees the
current version (A) and the other sees a changed version (B). Because the split
is random, a difference in outcomes between the groups can be attributed to the
change rather than to who happened to visit.

A/B tests let teams decide with data instead of opinion: ship a change only
when there is evidence it helps.`,

	TopicControlVsVariant: `The control (A) is the existing experience and acts as the baseline.
The variant (B) is the new experience you want to evaluate.

Every metric is read relative to the control: lift is how much better or worse
the variant converts compared to A.`,

	TopicConversionRate: `Conversion rate is the share of visitors who complete the goal action
(sign up, purchase, click):

    conversion rate = conversions / sample size

With 1,000 visitors and 100 conversions the rate is 10%. Absolute lift is the
difference between the two rates (13% - 10% = 3 points); relative lift expresses
that difference as a share of the control rate (3 / 10 = +30%).`,

	TopicPValue: `The p-value is the probability of seeing a difference at least as large as
the one measured if A and B actually converted at the same true rate.

A small p-value (below the significance level α, commonly 0.05) means such a
difference would be unlikely under "no real difference", so the result is called
statistically significant. A large p-value does not prove the versions are
equal; it means the data cannot yet tell them apart.`,
}

// Topics returns every topic in display order.
func Topics() []Topic {
	return []Topic{TopicABTest, TopicControlVsVariant, TopicConversionRate, TopicPValue}
}

// Title returns the display heading of t.
func (t Topic) Title() string {
	return topicTitles[t]
}

// ParseTopic resolves a slug such as "p-value".
func ParseTopic(s string) (Topic, error) {
	t := Topic(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := topicBodies[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTopic, s)
	}
	return t, nil
}

// Lookup returns the explainer text for t.
func Lookup(t Topic) (string, error) {
	body, ok := topicBodies[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTopic, string(t))
	}
	return body, nil
}
