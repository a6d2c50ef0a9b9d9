package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_CoverEveryRepository(t *testing.T) {
	want := map[string]bool{"parking_slots": false, "bookings": false, "global_settings": false}

	for _, def := range Collections() {
		if _, ok := want[def.Name]; !ok {
			t.Errorf("unexpected collection %s", def.Name)
			continue
		}
		want[def.Name] = true

		schema, ok := def.Validator["$jsonSchema"].(bson.M)
		if !ok {
			t.Errorf("%s: validator has no $jsonSchema", def.Name)
			continue
		}
		if _, ok := schema["properties"].(bson.M); !ok {
			t.Errorf("%s: schema has no properties", def.Name)
		}
	}

	for name, seen := range want {
		if !seen {
			t.Errorf("collection %s not migrated", name)
		}
	}
}

func TestParkingSlotsIndexes_SlotNumberUnique(t *testing.T) {
	for _, idx := range ParkingSlotsIndexes {
		keys := idx.Keys.(bson.D)
		if len(keys) == 1 && keys[0].Key == "slot_number" {
			if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
				t.Fatal("slot_number index is not unique")
			}
			return
		}
	}
	t.Fatal("no slot_number index")
}

func TestStatusEnumsMatchModel(t *testing.T) {
	tests := []struct {
		name      string
		validator bson.M
		want      []string
	}{
		{"slots", Collections()[0].Validator, []string{"AVAILABLE", "OCCUPIED"}},
		{"bookings", Collections()[1].Validator, []string{"ACTIVE", "COMPLETED", "CANCELLED"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := tt.validator["$jsonSchema"].(bson.M)["properties"].(bson.M)
			got := props["status"].(bson.M)["enum"].([]string)
			if len(got) != len(tt.want) {
				t.Fatalf("enum = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("enum = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMoneyFieldsAreNotSignChecked(t *testing.T) {
	money := map[string][]string{
		"parking_slots":   {"hourly_rate"},
		"bookings":        {"booking_amount", "penalty_amount", "total_amount"},
		"global_settings": {"default_hourly_rate", "default_penalty_amount"},
	}

	for _, def := range Collections() {
		props := def.Validator["$jsonSchema"].(bson.M)["properties"].(bson.M)
		for _, field := range money[def.Name] {
			prop, ok := props[field].(bson.M)
			if !ok {
				t.Errorf("%s.%s: no schema", def.Name, field)
				continue
			}
			if min, ok := prop["minimum"]; ok {
				t.Errorf("%s.%s: minimum %v rejects negative defaults", def.Name, field, min)
			}
		}
	}
}
