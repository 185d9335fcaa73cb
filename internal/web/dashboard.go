package web

import "net/http"

// ServeDashboard serves the embedded dashboard page
func ServeDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>sharewatch</title>
<style>
  body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2rem auto; max-width: 52rem; padding: 0 1rem; color: #1c1c1e; }
  textarea { width: 100%; min-height: 8rem; font: inherit; padding: .5rem; }
  button { padding: .4rem 1rem; font: inherit; cursor: pointer; }
  #preview { border: 1px solid #d0d0d5; padding: .75rem; min-height: 3rem; white-space: pre-wrap; }
  mark.sw-caution { background: #ffe9a8; }
  mark.sw-danger { background: #ffb3ad; }
  #feed { font-size: .85rem; color: #555; max-height: 12rem; overflow-y: auto; }
</style>
</head>
<body>
<h1>sharewatch</h1>
<p>Paste text to check it for sensitive data before sharing.</p>
<textarea id="text" placeholder="Text to check..."></textarea>
<p><button id="check">Check</button></p>
<div id="preview"></div>
<h2>Events</h2>
<div id="feed"></div>
<script>
document.getElementById('check').addEventListener('click', async () => {
  const resp = await fetch('/v1/highlight', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({text: document.getElementById('text').value})
  });
  const data = await resp.json();
  document.getElementById('preview').innerHTML = data.html;
});
try {
  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  ws.onmessage = (msg) => {
    const div = document.createElement('div');
    div.textContent = msg.data;
    const feed = document.getElementById('feed');
    feed.prepend(div);
    while (feed.childNodes.length > 50) feed.removeChild(feed.lastChild);
  };
} catch (e) { /* dashboard works without the event feed */ }
</script>
</body>
</html>
`
