package testutil

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ProtoEqual returns an error describing both messages in JSON when they
// differ
func ProtoEqual(expected, actual proto.Message) error {
	if proto.Equal(expected, actual) {
		return nil
	}

	expectedJson, _ := protojson.Marshal(expected)
	actualJson, _ := protojson.Marshal(actual)
	return fmt.Errorf("expected: %s\nactual:   %s", expectedJson, actualJson)
}

// ProtoSliceEqual is ProtoEqual applied element-wise
func ProtoSliceEqual[T proto.Message](expected, actual []T) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("expected %d elements, got %d", len(expected), len(actual))
	}

	for i := range expected {
		if err := ProtoEqual(expected[i], actual[i]); err != nil {
			return fmt.Errorf("element mismatch at %d\n%w", i, err)
		}
	}
	return nil
}
