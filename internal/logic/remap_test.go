package logic

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/craftbook/internal/types"
)

var names = map[string]uint32{
	"SK_REPAIR":  226,
	"SK_SCIENCE": 225,
	"SK_DOCTOR":  221,
}

func lookupID(key string, meaning types.Meaning) (uint32, error) {
	id, ok := names[key]
	if !ok {
		return 0, &types.NotFoundError{Key: key, Meaning: meaning}
	}
	return id, nil
}

func TestMapChain_TranslatesKeys(t *testing.T) {
	c := Single("SK_REPAIR", 100).Or("SK_SCIENCE", 100).And("SK_DOCTOR", 50)

	got, err := MapChain(c, types.MeaningParam, lookupID)
	if err != nil {
		t.Fatalf("MapChain() error = %v, want nil", err)
	}

	want := Single[uint32](226, 100).Or(225, 100).And(221, 50)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapChain() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapChain_PassesMeaning(t *testing.T) {
	var seen []types.Meaning
	record := func(key string, meaning types.Meaning) (string, error) {
		seen = append(seen, meaning)
		return key, nil
	}

	if _, err := MapChain(Single("A", 1).And("B", 2), types.MeaningItem, record); err != nil {
		t.Fatalf("MapChain() error = %v, want nil", err)
	}
	if diff := cmp.Diff([]types.Meaning{types.MeaningItem, types.MeaningItem}, seen); diff != "" {
		t.Errorf("meanings mismatch (-want +got):\n%s", diff)
	}
}

func TestMapChain_FirstErrorShortCircuits(t *testing.T) {
	c := Single("SK_REPAIR", 100).And("UNKNOWN", 1).And("SK_DOCTOR", 50).And("ALSO_UNKNOWN", 2)

	var calls []string
	mapper := func(key string, meaning types.Meaning) (uint32, error) {
		calls = append(calls, key)
		return lookupID(key, meaning)
	}

	got, err := MapChain(c, types.MeaningParam, mapper)
	if !errors.Is(err, types.ErrIdentifierNotFound) {
		t.Fatalf("MapChain() error = %v, want ErrIdentifierNotFound", err)
	}
	var nf *types.NotFoundError
	if !errors.As(err, &nf) || nf.Key != "UNKNOWN" {
		t.Errorf("MapChain() error = %v, want the first failing key UNKNOWN", err)
	}
	if diff := cmp.Diff(Chain[uint32]{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("MapChain() returned partial result (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"SK_REPAIR", "UNKNOWN"}, calls); diff != "" {
		t.Errorf("mapper calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMapTree_FirstErrorShortCircuits(t *testing.T) {
	tree := ToTree(Single("SK_REPAIR", 100).Or("MISSING", 1).And("SK_DOCTOR", 50))

	calls := 0
	mapper := func(key string, meaning types.Meaning) (uint32, error) {
		calls++
		return lookupID(key, meaning)
	}

	got, err := MapTree(tree, types.MeaningParam, mapper)
	if !errors.Is(err, types.ErrIdentifierNotFound) {
		t.Fatalf("MapTree() error = %v, want ErrIdentifierNotFound", err)
	}
	if calls != 2 {
		t.Errorf("mapper called %d times, want 2", calls)
	}
	if got.Kind != KindLeaf || got.Children != nil {
		t.Errorf("MapTree() returned partial result %+v", got)
	}
}

func TestMapOptional_Nil(t *testing.T) {
	c, err := MapOptionalChain[string, uint32](nil, types.MeaningItem, lookupID)
	if err != nil || c != nil {
		t.Errorf("MapOptionalChain(nil) = %v, %v; want nil, nil", c, err)
	}
	tr, err := MapOptionalTree[string, uint32](nil, types.MeaningItem, lookupID)
	if err != nil || tr != nil {
		t.Errorf("MapOptionalTree(nil) = %v, %v; want nil, nil", tr, err)
	}
}

func TestMapTree_CommutesWithToTree(t *testing.T) {
	c := Single("SK_REPAIR", 100).Or("SK_SCIENCE", 100).And("SK_DOCTOR", 50)

	mappedChain, err := MapChain(c, types.MeaningParam, lookupID)
	if err != nil {
		t.Fatalf("MapChain() error = %v, want nil", err)
	}
	mappedTree, err := MapTree(ToTree(c), types.MeaningParam, lookupID)
	if err != nil {
		t.Fatalf("MapTree() error = %v, want nil", err)
	}
	if diff := cmp.Diff(ToTree(mappedChain), mappedTree); diff != "" {
		t.Errorf("ToTree(MapChain) != MapTree(ToTree) (-want +got):\n%s", diff)
	}
}

// Property-based test: identity remapping preserves structure
func TestRemap_PropertyIdentity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("identity mapper yields an equal chain", prop.ForAll(
		func(first uint32, rest []uint32) bool {
			c := chainFromSeeds(first, rest)
			mapped, err := MapChain(c, types.MeaningItem, Identity[string]())
			return err == nil && cmp.Equal(c, mapped, cmpopts.EquateEmpty())
		},
		gen.UInt32(),
		gen.SliceOf(gen.UInt32()),
	))

	properties.Property("identity mapper yields an equal tree", prop.ForAll(
		func(first uint32, rest []uint32) bool {
			tree := ToTree(chainFromSeeds(first, rest))
			mapped, err := MapTree(tree, types.MeaningItem, Identity[string]())
			return err == nil && cmp.Equal(tree, mapped, cmpopts.EquateEmpty())
		},
		gen.UInt32(),
		gen.SliceOf(gen.UInt32()),
	))

	properties.Property("representation change keeps shape", prop.ForAll(
		func(first uint32, rest []uint32) bool {
			c := chainFromSeeds(first, rest)
			toNum := func(key string, _ types.Meaning) (uint64, error) {
				return strconv.ParseUint(key[1:], 10, 32)
			}
			toStr := func(key uint64, _ types.Meaning) (string, error) {
				return fmt.Sprintf("K%d", key), nil
			}
			numeric, err := MapChain(c, types.MeaningItem, toNum)
			if err != nil {
				return false
			}
			back, err := MapChain(numeric, types.MeaningItem, toStr)
			return err == nil && cmp.Equal(c, back, cmpopts.EquateEmpty())
		},
		gen.UInt32(),
		gen.SliceOf(gen.UInt32()),
	))

	properties.TestingRun(t)
}

// Property-based test: one failing key among N fails the whole remap
func TestRemap_PropertyFailurePropagation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	errBoom := errors.New("boom")

	properties.Property("failure at any index is returned alone", prop.ForAll(
		func(first uint32, rest []uint32, pick uint32) bool {
			c := chainFromSeeds(first, rest)
			failAt := int(pick) % c.Len()
			calls := 0
			mapper := func(key string, _ types.Meaning) (string, error) {
				defer func() { calls++ }()
				if calls == failAt {
					return "", errBoom
				}
				return key, nil
			}
			mapped, err := MapChain(c, types.MeaningParam, mapper)
			return errors.Is(err, errBoom) && calls == failAt+1 && mapped.Rest == nil && mapped.First.Key == ""
		},
		gen.UInt32(),
		gen.SliceOf(gen.UInt32()),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
