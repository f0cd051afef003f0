package api

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/cardboard/internal/cards"
)

// PageData contains all data needed for the index page template
type PageData struct {
	Title string
	Cards []CardData
}

// CardData represents a card for HTML rendering
type CardData struct {
	ID       string
	Title    string
	Color    string
	Quantity int
}

// ExchangeData represents one chat exchange for HTML rendering
type ExchangeData struct {
	UserText   string
	AgentText  string
	AgentError bool
	Cards      []CardData
	SwapCards  bool
}

// cardDOMID derives a stable DOM id from a card title
func cardDOMID(title string) string {
	return "card-" + strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

func prepareCardData(snapshot []cards.Card) []CardData {
	out := make([]CardData, len(snapshot))
	for i, c := range snapshot {
		out[i] = CardData{
			ID:       cardDOMID(c.Title),
			Title:    c.Title,
			Color:    c.Color,
			Quantity: c.Quantity,
		}
	}
	return out
}

var (
	pageTmpl     = template.Must(template.New("page").Parse(pageTemplate))
	exchangeTmpl = template.Must(template.New("exchange").Parse(exchangeTemplate))
)

// renderPage renders the full index page
func renderPage(data *PageData) (string, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

// renderExchange renders a user/agent bubble pair, plus an out-of-band
// card zone refresh when the turn changed the card store
func renderExchange(data *ExchangeData) (string, error) {
	var buf bytes.Buffer
	if err := exchangeTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render exchange: %w", err)
	}
	return buf.String(), nil
}

// cardZoneTemplate is shared by the index page and out-of-band swaps
const cardZoneTemplate = `{{define "cardzone"}}{{if .}}{{range .}}<div id="{{.ID}}" class="px-6 py-8 rounded-xl shadow-xl {{.Color}} text-white flex flex-col items-center justify-center hover:scale-105 transition-all duration-300 cursor-pointer border-2 border-white border-opacity-30">
  <h3 class="text-xl font-bold mb-1 text-center">{{.Title}}</h3>
  <p class="text-sm text-center opacity-90">Quantity: {{.Quantity}}</p>
</div>
{{end}}{{else}}<p class="text-gray-400 text-center italic py-4">No cards yet. Try adding one!</p>{{end}}{{end}}`

// exchangeTemplate renders the POST /chat response fragment
const exchangeTemplate = cardZoneTemplate + `<div class="flex justify-end mb-3">
  <div class="inline-block bg-blue-500 px-4 py-3 rounded-2xl rounded-tr-sm max-w-md shadow-md">
    <p class="text-xs text-blue-600 font-bold mb-1">You</p>
    <p class="text-white whitespace-pre-wrap break-words">{{.UserText}}</p>
  </div>
</div>
<div class="flex justify-start mb-3">
  <div class="inline-block {{if .AgentError}}bg-red-100 border border-red-300{{else}}bg-green-100 border border-green-300{{end}} px-4 py-3 rounded-2xl rounded-tl-sm max-w-md shadow-md">
    <p class="text-xs {{if .AgentError}}text-red-600{{else}}text-green-600{{end}} font-bold mb-1">Agent</p>
    <p class="text-gray-800 whitespace-pre-wrap break-words">{{.AgentText}}</p>
  </div>
</div>
{{if .SwapCards}}<div id="card-zone" class="space-y-4 overflow-y-auto" hx-swap-oob="true">
{{template "cardzone" .Cards}}
</div>{{end}}`

// pageTemplate is the index page
const pageTemplate = cardZoneTemplate + `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <script src="https://cdn.tailwindcss.com"></script>
  <script src="https://unpkg.com/htmx.org@1.9.12"></script>
</head>
<body class="min-h-screen bg-gray-100">
  <div class="flex max-w-7xl mx-auto">
    <div class="flex-1 px-4 py-8 w-full">
      <h1 class="text-5xl font-bold text-blue-600 mb-1">{{.Title}}</h1>

      <div id="messages" class="space-y-2 my-4 overflow-y-auto max-h-96"></div>

      <form id="form" class="bg-white rounded-xl p-6 shadow-lg" hx-post="/chat" hx-target="#messages" hx-swap="beforeend">
        <div class="flex gap-3">
          <input id="msg" name="msg" placeholder="Type your message..." autocomplete="off"
                 class="flex-1 px-4 py-3 border border-gray-300 rounded-lg focus:outline-none focus:ring-2 focus:ring-blue-500">
          <button type="submit" id="send-btn"
                  class="px-6 py-3 bg-blue-600 text-white rounded-lg hover:bg-blue-700 font-semibold shadow-md">Send</button>
        </div>
      </form>

      <div class="w-full px-4 py-8 mt-6">
        <div class="sticky top-8 bg-gradient-to-br from-gray-800 to-gray-900 rounded-xl p-6 shadow-2xl border-2 border-gray-700 min-h-full">
          <h2 class="text-2xl font-bold text-white mb-6 text-center">Cards Section</h2>
          <div id="card-zone" class="space-y-4 overflow-y-auto">
{{template "cardzone" .Cards}}
          </div>
        </div>
      </div>
    </div>
  </div>

  <script>
    let apiPending = false;
    const form = document.getElementById('form');

    function applyButtonDisabled(disabled) {
      if (!form) return;
      let btn = form.querySelector('#send-btn');
      if (!btn) btn = form.querySelector('button[type=submit]');
      if (!btn) return;
      btn.disabled = disabled;
      if (disabled) {
        btn.classList.add('opacity-50', 'cursor-not-allowed', 'bg-gray-400');
        btn.classList.remove('bg-blue-600', 'hover:bg-blue-700');
      } else {
        btn.classList.remove('opacity-50', 'cursor-not-allowed', 'bg-gray-400');
        btn.classList.add('bg-blue-600', 'hover:bg-blue-700');
      }
    }

    function updateSubmitState() {
      const input = document.getElementById('msg');
      const empty = !input || !input.value.trim();
      applyButtonDisabled(apiPending || empty);
    }

    if (form) {
      form.addEventListener('submit', function(e) {
        const input = document.getElementById('msg');
        if (!input || !input.value.trim()) {
          e.preventDefault();
          updateSubmitState();
          if (input) input.focus();
          return;
        }
        apiPending = true;
        applyButtonDisabled(true);
      });
    }

    document.body.addEventListener('htmx:afterRequest', function() {
      apiPending = false;
      updateSubmitState();
    });

    document.body.addEventListener('htmx:afterSwap', function() {
      const input = document.getElementById('msg');
      if (input) input.value = '';
      const messages = document.getElementById('messages');
      if (messages) messages.scrollTop = messages.scrollHeight;
      apiPending = false;
      updateSubmitState();
    });

    const msgInput = document.getElementById('msg');
    if (msgInput) {
      msgInput.addEventListener('keydown', function(e) {
        if (e.key === 'Enter' && !e.shiftKey) {
          e.preventDefault();
          if (apiPending) return;
          if (!msgInput.value || !msgInput.value.trim()) {
            msgInput.focus();
            updateSubmitState();
            return;
          }
          if (typeof form.requestSubmit === 'function') {
            form.requestSubmit();
          } else {
            const btn = form.querySelector('button[type=submit]');
            if (btn) btn.click();
          }
        }
      });
      msgInput.addEventListener('input', updateSubmitState);
    }

    updateSubmitState();
  </script>
</body>
</html>`
