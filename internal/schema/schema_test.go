package schema

import (
	"strings"
	"testing"
)

func chatSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "chatRoom",
		Fields: []Field{
			{Name: "roomId", Type: TypeString},
			{Name: "roomName", Type: TypeString},
			{Name: "conversations", Type: TypeList},
			{Name: "autoReply", Type: TypeObject, Optional: true},
		},
	}
}

func TestValidateOK(t *testing.T) {
	record := map[string]interface{}{
		"roomId":        "r1",
		"roomName":      "Alice",
		"conversations": []interface{}{},
	}
	if err := chatSchema().Validate(record); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	record := map[string]interface{}{
		"roomId": "r1",
	}
	err := chatSchema().Validate(record)
	if err == nil {
		t.Fatal("Validate() should fail when required fields are missing")
	}
	if !strings.Contains(err.Error(), "roomName") {
		t.Errorf("error %q should name the missing field", err)
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	record := map[string]interface{}{
		"roomId":        42.0,
		"roomName":      "Alice",
		"conversations": "not a list",
	}
	err := chatSchema().Validate(record)
	if err == nil {
		t.Fatal("Validate() should fail on type mismatches")
	}
	if !strings.Contains(err.Error(), "roomId") || !strings.Contains(err.Error(), "conversations") {
		t.Errorf("error %q should report both mismatched fields", err)
	}
}

func TestValidateIntAcceptsWholeFloat(t *testing.T) {
	s := ExtractionSchema{Name: "n", Fields: []Field{{Name: "count", Type: TypeInt}}}

	if err := s.Validate(map[string]interface{}{"count": 3.0}); err != nil {
		t.Errorf("whole float should satisfy int: %v", err)
	}
	if err := s.Validate(map[string]interface{}{"count": 3.5}); err == nil {
		t.Error("fractional float should not satisfy int")
	}
}

func TestDescribePreservesOrder(t *testing.T) {
	desc := chatSchema().Describe()

	idxID := strings.Index(desc, "roomId")
	idxName := strings.Index(desc, "roomName")
	idxConv := strings.Index(desc, "conversations")
	if idxID < 0 || idxName < 0 || idxConv < 0 {
		t.Fatalf("Describe() missing fields: %q", desc)
	}
	if !(idxID < idxName && idxName < idxConv) {
		t.Errorf("Describe() should list fields in declaration order: %q", desc)
	}
	if !strings.Contains(desc, "autoReply (object, optional)") {
		t.Errorf("Describe() should mark optional fields: %q", desc)
	}
}

func TestValidateAll(t *testing.T) {
	records := []map[string]interface{}{
		{"roomId": "r1", "roomName": "a", "conversations": []interface{}{}},
		{"roomId": "r2"},
	}
	errs := chatSchema().ValidateAll(records)
	if len(errs) != 1 {
		t.Fatalf("ValidateAll() returned %d errors, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "record 1") {
		t.Errorf("error %q should identify the failing record", errs[0])
	}
}
