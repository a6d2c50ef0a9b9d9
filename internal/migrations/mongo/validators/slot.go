package validators

import "go.mongodb.org/mongo-driver/bson"

var ParkingSlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"slot_number",
			"status",
			"hourly_rate",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"slot_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 32,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"AVAILABLE", "OCCUPIED"},
			},

			"booked_by": bson.M{
				"bsonType": "string",
			},

			"start_time": bson.M{
				"bsonType": "string",
			},

			"end_time": bson.M{
				"bsonType": "string",
			},

			"hourly_rate": bson.M{
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

// Money fields are type-checked only. A zero slot rate inherits the settings
// default and penalties are built from it, and both defaults may be negative.
var money = []string{"double", "int", "long", "decimal"}
