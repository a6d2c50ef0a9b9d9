package validators

import "go.mongodb.org/mongo-driver/bson"

// Interval endpoints are stored as "YYYY-MM-DD HH:MM:SS" strings.
const timestampPattern = `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"slot_id",
			"start_time",
			"end_time",
			"status",
			"booking_amount",
			"total_amount",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"slot_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  timestampPattern,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  timestampPattern,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"ACTIVE", "COMPLETED", "CANCELLED"},
			},

			"penalty": bson.M{
				"bsonType": "bool",
			},

			"penalty_amount": bson.M{
				"bsonType": money,
			},

			"booking_amount": bson.M{
				"bsonType": money,
			},

			"total_amount": bson.M{
				"bsonType": money,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
