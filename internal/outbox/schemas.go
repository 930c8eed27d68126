package outbox

import "example.com/ecoquest/internal/events"

// SchemaCatalogEntry maps event type to schema definition.
type SchemaCatalogEntry struct {
	Schema string
}

var schemaCatalog = map[string]SchemaCatalogEntry{
	events.TypeActivityLogged: {
		Schema: activityLoggedSchema,
	},
	events.TypeAchievementUnlocked: {
		Schema: achievementUnlockedSchema,
	},
}

const activityLoggedSchema = `{
  "type": "object",
  "title": "ActivityLogged",
  "properties": {
    "event_id": {"type": "string"},
    "activity_id": {"type": "integer", "minimum": 1},
    "user_id": {"type": "string"},
    "activity_type": {"type": "string", "enum": ["Travel", "Purchase", "Energy"]},
    "subtype": {"type": "string"},
    "details": {"type": "object", "additionalProperties": {"type": "string"}},
    "impact": {
      "type": "object",
      "properties": {
        "carbon_footprint": {"type": "number", "minimum": 0},
        "plastic_waste": {"type": "number", "minimum": 0},
        "water_usage": {"type": "number", "minimum": 0}
      },
      "required": ["carbon_footprint", "plastic_waste", "water_usage"]
    },
    "logged_at": {"type": "string", "format": "date-time"},
    "version": {"type": "string"}
  },
  "required": ["event_id", "activity_id", "user_id", "activity_type", "subtype", "details", "impact", "logged_at", "version"],
  "additionalProperties": false
}`

const achievementUnlockedSchema = `{
  "type": "object",
  "title": "AchievementUnlocked",
  "properties": {
    "event_id": {"type": "string"},
    "user_id": {"type": "string"},
    "achievement_id": {"type": "string"},
    "name": {"type": "string"},
    "activity_id": {"type": "integer", "minimum": 1},
    "unlocked_at": {"type": "string", "format": "date-time"},
    "version": {"type": "string"}
  },
  "required": ["event_id", "user_id", "achievement_id", "name", "activity_id", "unlocked_at", "version"],
  "additionalProperties": false
}`
