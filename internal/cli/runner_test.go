package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idilsaglam/cart/internal/cart"
	"github.com/idilsaglam/cart/internal/config"
	"github.com/idilsaglam/cart/internal/model"
	"github.com/idilsaglam/cart/internal/store"
	"github.com/idilsaglam/cart/internal/store/jsonstore"
	"github.com/idilsaglam/cart/internal/store/memstore"
	"github.com/idilsaglam/cart/internal/ui"
)

type failingSet struct{ *memstore.Store }

func (failingSet) Set(context.Context, string, []byte) error { return errors.New("read-only") }

func newEnv(s store.Storage) (Env, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Env{Storage: s, Out: &out, Err: &errOut}, &out, &errOut
}

func load(t *testing.T, s store.Storage) []model.Product {
	t.Helper()
	c, err := cart.Open(context.Background(), s)
	require.NoError(t, err)
	return c.Products()
}

func TestAddIncDecAcrossRuns(t *testing.T) {
	ui.SetTheme("mono")
	defer ui.SetColorForcing(false, false)

	s, err := jsonstore.New(filepath.Join(t.TempDir(), "cart.json"))
	require.NoError(t, err)
	env, out, _ := newEnv(s)
	ctx := context.Background()

	require.Equal(t, 0, Run(ctx, []string{"add", "-image", "u", "1", "10", "Running", "shoe"}, env))
	require.Equal(t, 0, Run(ctx, []string{"add", "1", "10", "Running shoe"}, env))
	require.Equal(t, 0, Run(ctx, []string{"add", "2", "5", "Hat"}, env))
	require.Equal(t, 0, Run(ctx, []string{"inc", "2"}, env))
	require.Equal(t, 0, Run(ctx, []string{"dec", "1"}, env))

	assert.Equal(t, []model.Product{
		{ID: "1", Title: "Running shoe", ImageURL: "u", Price: 10, Quantity: 1},
		{ID: "2", Title: "Hat", Price: 5, Quantity: 2},
	}, load(t, s))
	assert.Contains(t, out.String(), "added 1")

	out.Reset()
	require.Equal(t, 0, Run(ctx, []string{"ls"}, env))
	assert.Contains(t, out.String(), "Running shoe")
	assert.Contains(t, out.String(), "$20.00")

	require.Equal(t, 0, Run(ctx, []string{"clear"}, env))
	assert.Empty(t, load(t, s))
}

func TestUsageErrors(t *testing.T) {
	env, _, _ := newEnv(memstore.New())
	ctx := context.Background()

	tests := [][]string{
		nil,
		{"bogus"},
		{"add"},
		{"add", "1", "free", "Hat"},
		{"add", "1", "-3", "Hat"},
		{"add", "-nope"},
		{"inc"},
		{"dec", "a", "b"},
		{"inc", " "},
	}
	for _, args := range tests {
		assert.Equal(t, 2, Run(ctx, args, env), "%v", args)
	}
	assert.Equal(t, 0, Run(ctx, []string{"help"}, env))
}

func TestSaveFailureExitsOne(t *testing.T) {
	env, _, errOut := newEnv(failingSet{memstore.New()})
	assert.Equal(t, 1, Run(context.Background(), []string{"add", "1", "1", "Hat"}, env))
	assert.Contains(t, errOut.String(), "read-only")
}

func TestMalformedCartIsReported(t *testing.T) {
	s := memstore.New()
	require.NoError(t, s.Set(context.Background(), store.CartKey, []byte("garbage")))
	env, _, errOut := newEnv(s)

	assert.Equal(t, 0, Run(context.Background(), []string{"ls"}, env))
	assert.Contains(t, errOut.String(), "ignoring saved cart")
}

func TestTUIHook(t *testing.T) {
	s := memstore.New()
	env, _, _ := newEnv(s)
	ctx := context.Background()

	assert.Equal(t, 1, Run(ctx, []string{"tui"}, env))

	env.Interactive = func(ctx context.Context, c *cart.Store) error {
		<-c.Ready()
		c.AddToCart(model.ProductInput{ID: "9", Title: "Sock"})
		return nil
	}
	require.Equal(t, 0, Run(ctx, []string{"tui"}, env))
	assert.Len(t, load(t, s), 1)

	env.Interactive = func(context.Context, *cart.Store) error { return errors.New("no tty") }
	assert.Equal(t, 1, Run(ctx, []string{"tui"}, env))
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite, config.BackendMemory} {
		cfg := config.Config{
			Backend:    backend,
			File:       filepath.Join(dir, "cart.json"),
			SQLitePath: filepath.Join(dir, "cart.db"),
		}
		s, closer, err := OpenStorage(ctx, cfg, zap.NewNop())
		require.NoError(t, err, backend)
		require.NoError(t, s.Set(ctx, store.CartKey, []byte("[]")), backend)
		require.NoError(t, closer.Close(), backend)
	}

	_, _, err := OpenStorage(ctx, config.Config{Backend: "tape"}, zap.NewNop())
	assert.Error(t, err)
}

func TestListTruncatesByDisplayWidth(t *testing.T) {
	ui.SetTheme("mono")
	title := "Chaussure de course très légère en laine mérinos ✓✓"
	lines := listLines([]model.Product{{ID: "1", Title: title, Price: 10, Quantity: 1}})

	var row string
	for _, ln := range lines {
		assert.True(t, utf8.ValidString(ln), "%q", ln)
		if strings.Contains(ln, "#1") {
			row = ln
		}
	}
	require.NotEmpty(t, row)
	assert.Contains(t, row, ui.Fit(title, 40))
	assert.Contains(t, row, "...")
}
