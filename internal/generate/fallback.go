package generate

import "strings"

// urlPlaceholder marks where the default image URL lands in the built-in
// template.
const urlPlaceholder = "{DEFAULT_URL}"

const fallbackHTML = `<!doctype html>
<html lang="en"><meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Captcha Solver</title>
<link rel="stylesheet" href="styles.css"/>
<body><main>
<h1>Captcha Solver</h1>
<p>Pass image via <code>?url=</code>. If absent, a sample is used.</p>
<img id="img" alt="captcha"/>
<pre id="result">Solving…</pre>
</main>
<script src="https://cdn.jsdelivr.net/npm/tesseract.js@5/dist/tesseract.min.js"></script>
<script>
const q=new URLSearchParams(location.search);
const url=q.get('url')||"{DEFAULT_URL}";
document.getElementById('img').src=url;
Tesseract.recognize(url,'eng',{logger:m=>console.log(m)}).then(({data})=>{
  document.getElementById('result').textContent=(data.text||'').trim()||'(no text found)';
}).catch(e=>{document.getElementById('result').textContent='Error: '+e});
</script></body></html>`

const fallbackCSS = "body{font-family:system-ui;margin:16px}main{max-width:720px;margin:auto}img{max-width:100%;border:1px solid #ddd;border-radius:8px}pre{background:#111;color:#0f0;padding:12px;border-radius:8px}"

// builtinTemplate returns the degraded site: an OCR page that reads the
// image from ?url= and falls back to defaultURL when the parameter is
// absent.
func builtinTemplate(defaultURL string) []File {
	return []File{
		{Path: "index.html", Content: strings.Replace(fallbackHTML, urlPlaceholder, defaultURL, 1)},
		{Path: "styles.css", Content: fallbackCSS},
	}
}
