package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dropsimgo/internal/model"
)

func testBuilder(name string) Builder {
	return func() *model.Scenario { return model.NewScenario(name) }
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	require.Equal(t, 0, r.Len())

	r.Register(&Entry{Name: "demo", Source: BuiltinSource, Build: testBuilder("demo")})

	e, ok := r.Get("demo")
	require.True(t, ok)
	assert.Equal(t, "demo", e.Name)
	assert.Equal(t, BuiltinSource, e.Source)
	assert.Equal(t, 1, r.Len())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RegisterPanics(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		r := New()
		assert.PanicsWithValue(t, "scenario entry must have a name", func() {
			r.Register(&Entry{Build: testBuilder("")})
		})
	})

	t.Run("missing builder", func(t *testing.T) {
		r := New()
		assert.Panics(t, func() {
			r.Register(&Entry{Name: "demo"})
		})
	})

	t.Run("duplicate name", func(t *testing.T) {
		r := New()
		r.Register(&Entry{Name: "demo", Source: BuiltinSource, Build: testBuilder("demo")})
		assert.Panics(t, func() {
			r.Register(&Entry{Name: "demo", Source: "demo.hcl", Build: testBuilder("demo")})
		})
	})
}

func TestRegistry_NamesAreSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(&Entry{Name: name, Source: BuiltinSource, Build: testBuilder(name)})
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}
