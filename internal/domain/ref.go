package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref is a reference from a parent document to one of its children.
// It is either Unresolved (only the child's ObjectID is known) or Resolved
// (the repository layer loaded the full record). Documents always persist the
// bare ObjectID; resolution happens explicitly at the data-access boundary.
type Ref[T any] struct {
	ID    primitive.ObjectID
	Value *T
}

// Unresolved builds a reference that only carries the child's ID.
func Unresolved[T any](id primitive.ObjectID) Ref[T] {
	return Ref[T]{ID: id}
}

// Resolved builds a reference carrying the loaded child record.
func Resolved[T any](id primitive.ObjectID, value *T) Ref[T] {
	return Ref[T]{ID: id, Value: value}
}

// IsResolved reports whether the full record is attached.
func (r Ref[T]) IsResolved() bool {
	return r.Value != nil
}

// RefIDs returns the IDs of refs, in order.
func RefIDs[T any](refs []Ref[T]) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

// UnresolvedRefs wraps ids as unresolved references.
func UnresolvedRefs[T any](ids []primitive.ObjectID) []Ref[T] {
	refs := make([]Ref[T], len(ids))
	for i, id := range ids {
		refs[i] = Unresolved[T](id)
	}
	return refs
}

// MarshalBSONValue stores the reference as a bare ObjectID.
func (r Ref[T]) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(r.ID)
}

// UnmarshalBSONValue reads a bare ObjectID; the result is always unresolved.
func (r *Ref[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	id, ok := raw.ObjectIDOK()
	if !ok {
		return fmt.Errorf("ref: expected objectId, got %s", t)
	}
	r.ID = id
	r.Value = nil
	return nil
}

// MarshalJSON writes the record when resolved and the hex ID otherwise.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	return json.Marshal(r.ID.Hex())
}

// UnmarshalJSON accepts either a hex ID string or a full record object.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var hex string
		if err := json.Unmarshal(trimmed, &hex); err != nil {
			return err
		}
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return fmt.Errorf("ref: %w", err)
		}
		r.ID = id
		r.Value = nil
		return nil
	}

	var head struct {
		ID primitive.ObjectID `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return fmt.Errorf("ref: %w", err)
	}
	value := new(T)
	if err := json.Unmarshal(trimmed, value); err != nil {
		return err
	}
	r.ID = head.ID
	r.Value = value
	return nil
}
