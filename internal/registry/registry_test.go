package registry

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampantspark/pagews/internal/web"
)

func controller(name string) web.Controller {
	return web.ControllerFunc{
		ControllerName: name,
		Fn: func(w http.ResponseWriter, r *http.Request) (string, error) {
			return "", nil
		},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := New()
	stats := controller(StatsPage)

	require.NoError(t, reg.Register(&Binding{Name: StatsPage, Path: "/app/pages/stats", View: "stats", Controller: stats}))
	require.NoError(t, reg.Register(&Binding{Name: ImagesURL}))

	got, ok := reg.LookupByPath("/app/pages/stats")
	require.True(t, ok)
	assert.Equal(t, StatsPage, got.Name())

	_, ok = reg.LookupByPath("/app/pages/unknown")
	assert.False(t, ok)

	b, ok := reg.LookupByName(StatsPage)
	require.True(t, ok)
	assert.Equal(t, "/app/pages/stats", b.Path)
	assert.Equal(t, "stats", reg.View(StatsPage))
	assert.Equal(t, "/app/pages/stats", reg.Path(StatsPage))
	assert.Equal(t, "", reg.View("nope"))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "Binding-statsPageUrl", b.String())
}

func TestLookupByPath_Unbound(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&Binding{Name: IndexPage, Path: "/app/pages/index"}))

	_, ok := reg.LookupByPath("/app/pages/index")
	assert.False(t, ok, "binding without controller should not resolve")

	require.NoError(t, reg.Bind(IndexPage, controller(IndexPage)))
	_, ok = reg.LookupByPath("/app/pages/index")
	assert.True(t, ok)

	assert.ErrorIs(t, reg.Bind(IndexPage, controller(IndexPage)), ErrAlreadyBound)
	assert.ErrorIs(t, reg.Bind("missing", controller("x")), ErrUnknownName)
}

func TestRegister_DuplicatePath(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&Binding{Name: "a", Path: "/x"}))

	err := reg.Register(&Binding{Name: "b", Path: "/x"})
	assert.ErrorIs(t, err, ErrDuplicatePath)

	_, ok := reg.LookupByName("b")
	assert.False(t, ok)
}

func TestRegister_ReplaceKeepsMapsInSync(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&Binding{Name: "a", Path: "/old"}))
	require.NoError(t, reg.Register(&Binding{Name: "a", Path: "/new"}))

	_, ok := reg.BindingByPath("/old")
	assert.False(t, ok)
	b, ok := reg.BindingByPath("/new")
	require.True(t, ok)
	assert.Equal(t, "a", b.Name)
	assert.Equal(t, 1, reg.Len())
}

func TestRegister_Invalid(t *testing.T) {
	reg := New()
	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(&Binding{Name: "  "}))
}

func TestUnregister(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&Binding{Name: "a", Path: "/a", Controller: controller("a")}))

	assert.True(t, reg.Unregister("a"))
	assert.False(t, reg.Unregister("a"))

	_, ok := reg.LookupByPath("/a")
	assert.False(t, ok)
	_, ok = reg.LookupByName("a")
	assert.False(t, ok)
}

func TestBindings_Sorted(t *testing.T) {
	reg := New()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, reg.Register(&Binding{Name: name}))
	}

	var names []string
	for _, b := range reg.Bindings() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestConcurrentLookups(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&Binding{Name: "a", Path: "/a", Controller: controller("a")}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c, ok := reg.LookupByPath("/a")
				assert.True(t, ok)
				assert.Equal(t, "a", c.Name())
			}
		}()
	}
	wg.Wait()
}
