package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/notify"
)

func TestCenter_AutoDismissAfterTTL(t *testing.T) {
	c := notify.NewCenter(30*time.Millisecond, logger.Nop())

	n := c.Success("Fornecedor criado com sucesso!")
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, n.ID, cur.ID)

	assert.Eventually(t, func() bool {
		_, ok := c.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestCenter_StaleTimerDoesNotDismissNewerNotice(t *testing.T) {
	c := notify.NewCenter(100*time.Millisecond, logger.Nop())

	first := c.Error("Erro ao excluir")
	time.Sleep(60 * time.Millisecond)
	second := c.Success("Salvo")

	// O temporizador do primeiro expiraria aqui.
	time.Sleep(60 * time.Millisecond)
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)

	c.Dismiss(first.ID)
	_, ok = c.Current()
	assert.True(t, ok)
}

func TestCenter_SubscribersAndHistory(t *testing.T) {
	c := notify.NewCenter(0, logger.Nop())

	var events []bool
	c.Subscribe(func(_ notify.Notice, visible bool) { events = append(events, visible) })

	n := c.Post(notify.KindInfo, "olá")
	c.Dismiss(n.ID)

	assert.Equal(t, []bool{true, false}, events)
	hist := c.History()
	require.Len(t, hist, 1)
	assert.Equal(t, notify.KindInfo, hist[0].Kind)
}

func TestCenter_SubscriberMaySubscribeDuringDelivery(t *testing.T) {
	c := notify.NewCenter(0, logger.Nop())

	var first, late int
	c.Subscribe(func(_ notify.Notice, visible bool) {
		first++
		if first == 1 {
			c.Subscribe(func(notify.Notice, bool) { late++ })
		}
	})

	n := c.Success("Salvo")
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, late, "assinante novo só recebe a partir do próximo evento")

	c.Dismiss(n.ID)
	assert.Equal(t, 2, first)
	assert.Equal(t, 1, late)
}
