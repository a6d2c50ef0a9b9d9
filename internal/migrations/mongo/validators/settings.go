package validators

import "go.mongodb.org/mongo-driver/bson"

// Negative defaults are accepted, so only the types are checked.
var GlobalSettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"default_penalty_amount",
			"default_hourly_rate",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"default_penalty_amount": bson.M{
				"bsonType": money,
			},

			"default_hourly_rate": bson.M{
				"bsonType": money,
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
