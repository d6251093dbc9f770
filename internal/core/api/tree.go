package api

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/craftbook/internal/logic"
)

// TreeValue encodes a tree as a protobuf Value:
//
//	{"and": [...]}  {"or": [...]}  {"key": KEY, "value": N}
//
// String keys encode as strings and numeric keys as numbers.
func TreeValue[K any](t logic.Tree[K]) *structpb.Value {
	switch t.Kind {
	case logic.KindLeaf:
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"key":   keyValue(t.Term.Key),
			"value": structpb.NewNumberValue(float64(t.Term.Value)),
		}})
	default:
		children := make([]*structpb.Value, len(t.Children))
		for i, c := range t.Children {
			children[i] = TreeValue(c)
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			t.Kind.String(): structpb.NewListValue(&structpb.ListValue{Values: children}),
		}})
	}
}

func keyValue[K any](key K) *structpb.Value {
	switch k := any(key).(type) {
	case string:
		return structpb.NewStringValue(k)
	case uint32:
		return structpb.NewNumberValue(float64(k))
	default:
		return structpb.NewStringValue(fmt.Sprint(k))
	}
}
