package db

import "testing"

func validDef() *IndexDefinition {
	return &IndexDefinition{
		Name:     "creditdesk:doc:idx",
		Prefixes: []string{"creditdesk:doc:"},
		Fields: []IndexField{
			{Name: "org_id", Type: IndexFieldTag},
			{Name: "session_id", Type: IndexFieldTag},
			{Name: "uploaded_at", Type: IndexFieldNumeric},
			{
				Name: "__vector", Type: IndexFieldVector,
				VectorAlgo: VectorHNSW, VectorDim: 1536, VectorDistance: DistanceCosine,
			},
		},
	}
}

func TestIndexDefinition_Validate(t *testing.T) {
	if err := validDef().Validate(); err != nil {
		t.Errorf("valid definition rejected: %v", err)
	}
}

func TestIndexDefinition_Validate_Errors(t *testing.T) {
	noName := validDef()
	noName.Name = ""
	if err := noName.Validate(); err == nil {
		t.Error("expected error for missing name")
	}

	noFields := validDef()
	noFields.Fields = nil
	if err := noFields.Validate(); err == nil {
		t.Error("expected error for empty fields")
	}

	dup := validDef()
	dup.Fields = append(dup.Fields, IndexField{Name: "org_id", Type: IndexFieldTag})
	if err := dup.Validate(); err == nil {
		t.Error("expected error for duplicate field")
	}

	badVec := validDef()
	badVec.Fields[3].VectorDim = 0
	if err := badVec.Validate(); err == nil {
		t.Error("expected error for zero vector dim")
	}
}
