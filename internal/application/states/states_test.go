package states

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStartFinishesPreviousWizard(t *testing.T) {
	s := newSession(1)

	s.Start(WizardCreateProduct, StepName)
	s.Draft.Name = "AirX"
	s.Draft.Photos = [][]byte{{1}}
	s.Advance(StepMinPrice)
	require.True(t, s.Is(WizardCreateProduct, StepMinPrice))

	s.Start(WizardDeleteProduct, StepProductId)
	assert.True(t, s.Is(WizardDeleteProduct, StepProductId))
	assert.Equal(t, Draft{}, s.Draft)
}

func TestSessionFinishAndReset(t *testing.T) {
	s := newSession(1)
	s.Start(WizardFindProduct, StepProductId)
	s.Browse.Previous = MenuSubcategory
	s.Browse.Page = 3
	s.Remember(10, 11)

	s.Finish()
	assert.False(t, s.Active())
	assert.Equal(t, StepNone, s.Step)
	assert.Equal(t, MenuSubcategory, s.Browse.Previous)

	s.Reset()
	assert.Equal(t, MenuMain, s.Browse.Previous)
	assert.Equal(t, 1, s.Browse.Page)
	assert.Equal(t, []int{10, 11}, s.TakeMessages())
	assert.Empty(t, s.TakeMessages())
}

func TestManagerKeepsOneSessionPerUser(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Get(int64(i % 5))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, m.Len())
	assert.Same(t, m.Get(3), m.Get(3))
	assert.NotSame(t, m.Get(3), m.Get(4))
}

func TestSessionContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	s := newSession(9)
	ctx := WithSession(context.Background(), s)
	assert.Same(t, s, FromContext(ctx))
}

func TestWizardNames(t *testing.T) {
	for w := WizardNone; w <= WizardFindProduct; w++ {
		parsed, ok := ParseWizard(w.String())
		require.True(t, ok, w.String())
		assert.Equal(t, w, parsed)
	}

	_, ok := ParseWizard("drop_database")
	assert.False(t, ok)

	menu, ok := ParseMenu("sub_subcategory")
	assert.True(t, ok)
	assert.Equal(t, MenuSubSubcategory, menu)
}
