package present

// hostPage is the default page the reader mounts into.
const hostPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Playbook</title>
  <link rel="stylesheet" href="styles.css">
</head>
<body>
  <div class="progress"><div id="progressBar" class="progress-bar" style="width: 0.00%"></div></div>
  <header class="top-bar">
    <a class="brand" href="#/" id="brandTitle">Playbook</a>
    <input type="search" id="docSearch" placeholder="Search (press /)" autocomplete="off">
    <button class="theme-toggle" id="themeToggle" aria-label="Toggle theme">Theme</button>
  </header>
  <div class="layout">
    <aside class="sidebar"><nav id="toc" class="toc" aria-label="Contents"></nav></aside>
    <main class="content"><div id="doc" class="doc"><p>Loading…</p></div></main>
  </div>
  <footer class="footer">
    <span id="footerTitle">Playbook</span>
    <a id="downloadRaw" href="#" download>Download export</a>
    <a id="viewRaw" href="#" target="_blank" rel="noopener">View raw</a>
  </footer>
  <script src="main.js"></script>
</body>
</html>`
