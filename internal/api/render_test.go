package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardboard/internal/cards"
)

func TestCardDOMID(t *testing.T) {
	assert.Equal(t, "card-banana", cardDOMID("Banana"))
	assert.Equal(t, "card-green-tea", cardDOMID("Green Tea"))
	assert.Equal(t, "card-usb-c-cable", cardDOMID("USB-C Cable"))
}

func TestRenderExchange_PreservesLineBreaks(t *testing.T) {
	out, err := renderExchange(&ExchangeData{
		UserText:  "hi",
		AgentText: "Line one.\nLine two.",
	})

	require.NoError(t, err)
	assert.Contains(t, out, "Line one.\nLine two.")
	assert.Contains(t, out, "whitespace-pre-wrap")
}

func TestRenderExchange_OOBZoneListsAllCards(t *testing.T) {
	out, err := renderExchange(&ExchangeData{
		UserText:  "add",
		AgentText: "Added!",
		SwapCards: true,
		Cards: prepareCardData([]cards.Card{
			{Title: "Banana", Color: "bg-yellow-400", Quantity: 1},
			{Title: "Apple", Color: "bg-red-500", Quantity: 4},
		}),
	})

	require.NoError(t, err)
	assert.Contains(t, out, `id="card-zone"`)
	assert.Contains(t, out, `hx-swap-oob="true"`)
	assert.Contains(t, out, `id="card-banana"`)
	assert.Contains(t, out, `id="card-apple"`)
}

func TestRenderExchange_EmptyZoneAfterLastRemoval(t *testing.T) {
	out, err := renderExchange(&ExchangeData{
		UserText:  "remove",
		AgentText: "All gone!",
		SwapCards: true,
	})

	require.NoError(t, err)
	assert.Contains(t, out, "No cards yet. Try adding one!")
}
