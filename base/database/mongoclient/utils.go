package mongoclient

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

// MakeBsonM converts a patch struct into a $set document. Nil pointers and
// zero values are skipped, non-nil pointers are dereferenced so a pointer to
// a zero value can still be written.
func MakeBsonM(patchable interface{}) (bson.M, error) {
	val := reflect.ValueOf(patchable)
	if val.Kind() == reflect.Ptr && val.Elem().Kind() == reflect.Struct {
		val = val.Elem()
	}

	bsonM := bson.M{}

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)

		tag, err := bsoncodec.DefaultStructTagParser(val.Type().Field(i))
		if err != nil {
			return nil, err
		}
		switch {
		case tag.Skip, !field.CanInterface():
			continue
		case field.Kind() == reflect.Ptr && !field.IsNil():
			bsonM[tag.Name] = field.Elem().Interface()
		case !field.IsZero():
			bsonM[tag.Name] = field.Interface()
		}
	}

	return bsonM, nil
}
