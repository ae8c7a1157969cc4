package appconfig

// configSchema constrains the on-disk configuration before it is decoded.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "alpha":          {"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 1},
    "alternative":    {"type": "string", "enum": ["two-sided", "larger", "smaller"]},
    "format":         {"type": "string", "enum": ["text", "json", "markdown"]},
    "debug":          {"type": "boolean"},
    "jsonMode":       {"type": "boolean"},
    "logFile":        {"type": "string"},
    "export":         {"type": "string"},
    "exportMarkdown": {"type": "string"},
    "listen":         {"type": "string"},
    "readTimeout":    {"type": "integer", "minimum": 0}
  }
}`
