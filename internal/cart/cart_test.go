package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mundolibro/storefront/internal/cart"
	"github.com/mundolibro/storefront/internal/domain"
	"github.com/mundolibro/storefront/internal/kvstore"
)

var (
	dune  = domain.Product{ID: "B1", Title: "Dune", Author: "Frank Herbert", Price: 10, Stock: 5}
	neuro = domain.Product{ID: "B2", Title: "Neuromancer", Author: "William Gibson", Price: 7.5, Stock: 3}
)

func newContainer(t *testing.T) (*cart.Container, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	return cart.NewContainer(context.Background(), store, "novabooks", nil), store
}

// assertInvariants checks the derived-total invariants that must hold after
// every mutation: total == sum(price*qty) and itemCount == sum(qty).
func assertInvariants(t *testing.T, c domain.Cart) {
	t.Helper()

	var total float64
	var count int
	for _, it := range c.Items {
		assert.GreaterOrEqual(t, it.Quantity, 1, "zero-quantity items must never be retained")
		assert.LessOrEqual(t, it.Quantity, it.Stock, "quantity must not exceed the stock snapshot")
		total += it.UnitPrice * float64(it.Quantity)
		count += it.Quantity
	}
	assert.InDelta(t, total, c.Total, 1e-9)
	assert.Equal(t, count, c.ItemCount)
}

func Test_AddItem_NewAndMerge(t *testing.T) {
	ctx := context.Background()
	container, _ := newContainer(t)

	got, err := container.AddItem(ctx, dune, 2)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Total)
	assert.Equal(t, 2, got.ItemCount)
	assertInvariants(t, got)

	got, err = container.AddItem(ctx, dune, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1, "same product merges into one line item")
	assert.Equal(t, 3, got.Items[0].Quantity)
	assertInvariants(t, got)

	got, err = container.AddItem(ctx, neuro, 1)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 37.5, got.Total)
	assert.Equal(t, 4, got.ItemCount)
	assertInvariants(t, got)
}

func Test_AddItem_ClampsToStockSilently(t *testing.T) {
	ctx := context.Background()
	container, _ := newContainer(t)

	// Requesting far more than stock is not an error; the excess is dropped.
	got, err := container.AddItem(ctx, dune, 1000)
	require.NoError(t, err)
	item, ok := container.Item("B1")
	require.True(t, ok)
	assert.Equal(t, 5, item.Quantity)
	assertInvariants(t, got)

	// Merging past the snapshot clamps too.
	got, err = container.AddItem(ctx, dune, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assertInvariants(t, got)
}

func Test_AddItem_MergeClampsToFreshStock(t *testing.T) {
	ctx := context.Background()
	container, _ := newContainer(t)

	_, err := container.AddItem(ctx, dune, 5)
	require.NoError(t, err)

	// The catalog has sold down since the first add; re-adding carries
	// the fresh availability and the line must shrink to it.
	depleted := dune
	depleted.Stock = 2
	got, err := container.AddItem(ctx, depleted, 1)
	require.NoError(t, err)
	item, ok := container.Item("B1")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 2, item.Stock)
	assertInvariants(t, got)

	// Sold out entirely: the merge drops the line instead of keeping a
	// zero-quantity entry.
	soldOut := dune
	soldOut.Stock = 0
	got, err = container.AddItem(ctx, soldOut, 1)
	require.NoError(t, err)
	assert.False(t, container.Contains("B1"))
	assertInvariants(t, got)
}

func Test_AddItem_ZeroStockProductNotRetained(t *testing.T) {
	ctx := context.Background()
	container, _ := newContainer(t)

	soldOut := domain.Product{ID: "B9", Title: "Gone", Price: 5, Stock: 0}
	got, err := container.AddItem(ctx, soldOut, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.False(t, container.Contains("B9"))
}

func Test_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	container, _ := newContainer(t)

	_, err := container.AddItem(context.Background(), dune, 0)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func Test_AddItem_MergeEquivalence(t *testing.T) {
	ctx := context.Background()

	// addItem(p,1) three times must equal addItem(p,3) once.
	three, _ := newContainer(t)
	for i := 0; i < 3; i++ {
		_, err := three.AddItem(ctx, dune, 1)
		require.NoError(t, err)
	}

	once, _ := newContainer(t)
	_, err := once.AddItem(ctx, dune, 3)
	require.NoError(t, err)

	assert.Equal(t, once.Cart(), three.Cart())
}

func Test_RemoveItem_Idempotent(t *testing.T) {
	ctx := context.Background()
	container, _ := newContainer(t)

	_, err := container.AddItem(ctx, dune, 2)
	require.NoError(t, err)
	_, err = container.AddItem(ctx, neuro, 1)
	require.NoError(t, err)

	first, err := container.RemoveItem(ctx, "B1")
	require.NoError(t, err)
	assertInvariants(t, first)

	second, err := container.RemoveItem(ctx, "B1")
	require.NoError(t, err, "second removal is a no-op, not an error")
	assert.Equal(t, first, second)
	assert.Equal(t, 7.5, second.Total)
	assert.Equal(t, 1, second.ItemCount)
}

func Test_UpdateQuantity_ClampsAndRemoves(t *testing.T) {
	ctx := context.Background()
	container, _ := newContainer(t)

	_, err := container.AddItem(ctx, neuro, 1) // stock snapshot 3
	require.NoError(t, err)

	got, err := container.UpdateQuantity(ctx, "B2", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Items[0].Quantity, "update clamps to the stored stock snapshot")
	assertInvariants(t, got)

	got, err = container.UpdateQuantity(ctx, "B2", 0)
	require.NoError(t, err)
	assert.Empty(t, got.Items, "quantity <= 0 removes the item")

	got, err = container.UpdateQuantity(ctx, "ABSENT", 2)
	require.NoError(t, err, "updating an absent item is a no-op")
	assert.Empty(t, got.Items)
}

func Test_Clear_ResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	container, store := newContainer(t)

	_, err := container.AddItem(ctx, dune, 2)
	require.NoError(t, err)
	require.NoError(t, container.Clear(ctx))

	got := container.Cart()
	assert.Equal(t, domain.EmptyCart(), got)

	// The empty state is persisted, not just in memory.
	raw, ok, err := store.Read(ctx, cart.Key("novabooks"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0}`, string(raw))
}

func Test_Rehydration_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	original := cart.NewContainer(ctx, store, "novabooks", nil)
	_, err := original.AddItem(ctx, dune, 2)
	require.NoError(t, err)
	_, err = original.AddItem(ctx, neuro, 3)
	require.NoError(t, err)

	// Simulate a reload: a fresh container over the same store.
	reloaded := cart.NewContainer(ctx, store, "novabooks", nil)
	assert.Equal(t, original.Cart(), reloaded.Cart())
}

func Test_Rehydration_CorruptValueStartsEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"wrong shape", `"just a string"`},
		{"zero quantity item", `{"items":[{"libro_id":"B1","cantidad":0,"stock":5}],"total":0,"itemCount":0}`},
		{"quantity above stock", `{"items":[{"libro_id":"B1","cantidad":9,"stock":5}],"total":0,"itemCount":0}`},
		{"duplicate product", `{"items":[{"libro_id":"B1","cantidad":1,"stock":5},{"libro_id":"B1","cantidad":1,"stock":5}],"total":0,"itemCount":0}`},
		{"missing product id", `{"items":[{"cantidad":1,"stock":5}],"total":0,"itemCount":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kvstore.NewMemory()
			require.NoError(t, store.Write(ctx, cart.Key("novabooks"), []byte(tt.raw)))

			container := cart.NewContainer(ctx, store, "novabooks", nil)
			assert.Equal(t, domain.EmptyCart(), container.Cart())

			// The corrupt entry is cleared, not left to fail again next boot.
			_, ok, err := store.Read(ctx, cart.Key("novabooks"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func Test_Rehydration_RecomputesDerivedTotals(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	// A structurally valid cart whose persisted totals drifted.
	raw := `{"items":[{"libro_id":"B1","titulo":"Dune","precio":10,"stock":5,"cantidad":2}],"total":999,"itemCount":42}`
	require.NoError(t, store.Write(ctx, cart.Key("novabooks"), []byte(raw)))

	container := cart.NewContainer(ctx, store, "novabooks", nil)
	got := container.Cart()
	assert.Equal(t, 20.0, got.Total)
	assert.Equal(t, 2, got.ItemCount)
}

func Test_Carts_AreTenantScoped(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	nova := cart.NewContainer(ctx, store, "novabooks", nil)
	kid := cart.NewContainer(ctx, store, "kidverse", nil)

	_, err := nova.AddItem(ctx, dune, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, nova.Cart().ItemCount)
	assert.Equal(t, 0, kid.Cart().ItemCount, "a tenant's cart must not bleed into another store")
}

func Test_MutationSequence_InvariantsHold(t *testing.T) {
	ctx := context.Background()
	container, _ := newContainer(t)

	steps := []func() (domain.Cart, error){
		func() (domain.Cart, error) { return container.AddItem(ctx, dune, 2) },
		func() (domain.Cart, error) { return container.AddItem(ctx, neuro, 5) },
		func() (domain.Cart, error) { return container.UpdateQuantity(ctx, "B1", 4) },
		func() (domain.Cart, error) { return container.RemoveItem(ctx, "B2") },
		func() (domain.Cart, error) { return container.AddItem(ctx, neuro, 1) },
		func() (domain.Cart, error) { return container.UpdateQuantity(ctx, "B2", -3) },
		func() (domain.Cart, error) { return container.AddItem(ctx, dune, 100) },
	}

	for i, step := range steps {
		got, err := step()
		require.NoError(t, err, "step %d", i)
		assertInvariants(t, got)
	}
}
