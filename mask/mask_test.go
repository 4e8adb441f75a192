package mask_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/clearstack/pkg/mask"
)

// pairs collects an ordered map into a flat []any{k, v, k, v, ...} slice so
// expected output can be asserted with ordering included.
func pairs(om *orderedmap.OrderedMap[string, any]) []any {
	var out []any
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key, pair.Value)
	}
	return out
}

func TestStructToOrdMapNilInput(t *testing.T) {
	assert.Nil(t, mask.StructToOrdMap(nil))
}

func TestStructToOrdMapMasksTaggedFields(t *testing.T) {
	type credentials struct {
		Username string
		APIKey   string `mask:"true"`
	}

	type request struct {
		Name     string  `json:"name"`
		Password string  `json:"password,omitempty" mask:"true"`
		Age      int     `mask:"true"`
		Rate     float64 `mask:"true"`
		Active   bool    `mask:"TRUE"`
		Count    uint    `mask:"true"`
		IDs      []int   `mask:"true"`
		Internal string  `json:"-"`
		Plain    string  `mask:"false"`
		Creds    credentials
	}

	got := mask.StructToOrdMap(request{
		Name:     "john",
		Password: "secret",
		Age:      30,
		Rate:     1.5,
		Active:   true,
		Count:    7,
		IDs:      []int{1, 2},
		Internal: "dropped",
		Plain:    "visible",
		Creds:    credentials{Username: "admin", APIKey: "sk-12345"},
	})

	assert.Equal(t, []any{
		"name", "john",
		"password", "***masked-string***",
		"Age", "***masked-int***",
		"Rate", "***masked-float***",
		"Active", "***masked-bool***",
		"Count", "***masked-uint***",
		"IDs", "***masked-slice***",
		"Plain", "visible",
		"Creds.Username", "admin",
		"Creds.APIKey", "***masked-string***",
	}, pairs(got))
}

func TestStructToOrdMapZeroValuesStillMasked(t *testing.T) {
	type request struct {
		Password string `mask:"true"`
		Secret   int    `mask:"true"`
	}

	got := mask.StructToOrdMap(request{})

	assert.Equal(t, []any{
		"Password", "***masked-string***",
		"Secret", "***masked-int***",
	}, pairs(got))
}

func TestStructToOrdMapNilValues(t *testing.T) {
	type inner struct {
		Token string `mask:"true"`
	}
	type request struct {
		Token  *string           `mask:"true"`
		IDs    []int             `mask:"true"`
		Config map[string]string `mask:"true"`
		Creds  *inner
	}

	got := mask.StructToOrdMap(request{})

	assert.Equal(t, []any{
		"Token", nil,
		"IDs", nil,
		"Config", nil,
		"Creds", nil,
	}, pairs(got))
}

func TestStructToOrdMapPointerChain(t *testing.T) {
	type level3 struct {
		Secret string `mask:"true"`
		Trace  string
	}
	type level2 struct {
		Data *level3
	}
	type level1 struct {
		Info level2
	}

	got := mask.StructToOrdMap(&level1{
		Info: level2{Data: &level3{Secret: "deep", Trace: "trace-1"}},
	})

	assert.Equal(t, []any{
		"Info.Data.Secret", "***masked-string***",
		"Info.Data.Trace", "trace-1",
	}, pairs(got))
}

func TestStructToOrdMapMaskedStructCollapses(t *testing.T) {
	type secret struct {
		Value string
	}
	type request struct {
		Name string
		Data secret `mask:"true"`
	}

	got := mask.StructToOrdMap(request{Name: "test", Data: secret{Value: "hidden"}})

	assert.Equal(t, []any{
		"Name", "test",
		"Data", "***masked-struct***",
	}, pairs(got))
}

func TestStructToOrdMapUnexportedAndUntaggedFields(t *testing.T) {
	type request struct {
		Public string
		hidden string //nolint:unused // exercises the exported-field filter
		Tags   []string
	}

	got := mask.StructToOrdMap(request{Public: "pub", Tags: []string{"a", "b"}})

	require.Equal(t, 2, got.Len())
	assert.Equal(t, []any{
		"Public", "pub",
		"Tags", []string{"a", "b"},
	}, pairs(got))
}

func TestStructToOrdMapPreservesFieldOrder(t *testing.T) {
	type request struct {
		Z string
		A string
		M string
	}

	got := mask.StructToOrdMap(request{Z: "z", A: "a", M: "m"})

	assert.Equal(t, []any{"Z", "z", "A", "a", "M", "m"}, pairs(got))
}
