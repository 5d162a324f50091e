package site

// Stylesheet is written as styles.css when a site has none.
const Stylesheet = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --mark: #fff3bf;
  --error: #c92a2a;
  --sidebar-width: 280px;
  --content-max-width: 820px;
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --bg-sidebar: #16171f;
  --text: #c0caf5;
  --text-secondary: #a9b1d6;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --accent-light: #1a1b2e;
  --mark: #3d3a1f;
  --error: #f7768e;
}

@media (prefers-color-scheme: dark) {
  :root:not([data-theme="light"]) {
    --bg: #1a1b26;
    --bg-secondary: #1f2030;
    --bg-sidebar: #16171f;
    --text: #c0caf5;
    --text-secondary: #a9b1d6;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --accent-light: #1a1b2e;
    --mark: #3d3a1f;
    --error: #f7768e;
  }
}

/* ============ Reset & Base ============ */
*, *::before, *::after {
  box-sizing: border-box;
  margin: 0;
  padding: 0;
}

html {
  font-size: 16px;
}

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.5;
}

a { color: var(--accent); text-decoration: none; }
a:hover { text-decoration: underline; }

/* ============ Progress ============ */
.progress {
  position: fixed;
  top: 0;
  left: 0;
  right: 0;
  height: 3px;
  z-index: 20;
}

.progress-bar {
  height: 100%;
  background: var(--accent);
  transition: width 80ms linear;
}

/* ============ Top bar ============ */
.top-bar {
  position: sticky;
  top: 0;
  display: flex;
  align-items: center;
  gap: 1rem;
  padding: 0.75rem 1.5rem;
  background: var(--bg-secondary);
  border-bottom: 1px solid var(--border);
  z-index: 10;
}

.brand { font-weight: 600; color: var(--text); }

#docSearch {
  flex: 1;
  max-width: 360px;
  padding: 0.4rem 0.75rem;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--text);
}

.theme-toggle {
  margin-left: auto;
  padding: 0.35rem 0.75rem;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--text-secondary);
  cursor: pointer;
}

/* ============ Layout ============ */
.layout {
  display: flex;
  align-items: flex-start;
}

.sidebar {
  position: sticky;
  top: 3.5rem;
  width: var(--sidebar-width);
  max-height: calc(100vh - 3.5rem);
  overflow-y: auto;
  padding: 1rem;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
}

.content {
  flex: 1;
  min-width: 0;
  padding: 2rem 3rem;
}

.doc {
  max-width: var(--content-max-width);
  line-height: 1.7;
}

.doc h1, .doc h2, .doc h3, .doc h4 {
  margin: 1.5em 0 0.5em;
  scroll-margin-top: 4rem;
}

.doc p, .doc ul, .doc ol, .doc pre, .doc table { margin-bottom: 1em; }
.doc ul, .doc ol { padding-left: 1.5em; }

.doc mark {
  background: var(--mark);
  color: inherit;
  border-radius: 2px;
}

/* ============ Contents ============ */
.toc-link {
  display: block;
  padding: 0.2rem 0.5rem;
  border-left: 2px solid transparent;
  color: var(--text-secondary);
  font-size: 0.9rem;
}

.toc-l2 { padding-left: 1.25rem; }
.toc-l3 { padding-left: 2rem; font-size: 0.85rem; }

.toc-link.active {
  border-left-color: var(--accent);
  background: var(--accent-light);
  color: var(--accent);
}

/* ============ Landing ============ */
.entry-points {
  list-style: none;
  display: grid;
  grid-template-columns: repeat(auto-fill, minmax(160px, 1fr));
  gap: 1rem;
  padding: 0;
}

.entry-point {
  display: block;
  padding: 1.25rem;
  border: 1px solid var(--border);
  border-radius: 8px;
  text-align: center;
  font-weight: 600;
}

.entry-point.disabled {
  color: var(--text-muted);
  cursor: not-allowed;
}

/* ============ Errors ============ */
.error { color: var(--error); }

pre.error {
  white-space: pre-wrap;
  padding: 1rem;
  border: 1px solid var(--error);
  border-radius: 6px;
}

.back-link { display: inline-block; margin-top: 1rem; }

/* ============ Footer ============ */
.footer {
  display: flex;
  gap: 1.5rem;
  padding: 1rem 1.5rem;
  border-top: 1px solid var(--border);
  color: var(--text-muted);
  font-size: 0.85rem;
}

@media (max-width: 768px) {
  .sidebar { display: none; }
  .content { padding: 1.5rem; }
}
`

// liveReloadScript reconnects to /livereload and reloads the page on any
// reload message.
const liveReloadScript = `(function() {
  var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  function connect() {
    var ws = new WebSocket(proto + location.host + '/livereload');
    ws.onmessage = function(ev) {
      try {
        if (JSON.parse(ev.data).type === 'reload') location.reload();
      } catch (e) {}
    };
    ws.onclose = function() { setTimeout(connect, 1000); };
  }
  connect();
})();
`

// liveReloadTag is injected before </body> of served pages.
const liveReloadTag = `<script src="/livereload.js"></script>`
