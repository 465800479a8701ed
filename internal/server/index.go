// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package server

import (
	"net/http"
)

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(indexPage)); err != nil {
		s.logError(r, err)
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
	<title>Arc Bookvault</title>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<style>
		* { box-sizing: border-box; margin: 0; padding: 0; }
		body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 1000px; margin: 0 auto; padding: 20px; }
		h1 { margin-bottom: 20px; color: #2c3e50; }
		.controls { display: flex; gap: 10px; margin-bottom: 20px; align-items: center; flex-wrap: wrap; }
		.search-box { flex: 1; padding: 12px; font-size: 16px; border: 2px solid #ddd; border-radius: 4px; }
		.search-box:focus { outline: none; border-color: #3498db; }
		.stats { display: flex; gap: 20px; margin-bottom: 20px; flex-wrap: wrap; }
		.stat { background: #f8f9fa; padding: 10px 20px; border-radius: 4px; }
		.stat-value { font-size: 24px; font-weight: bold; color: #3498db; }
		.stat-label { font-size: 12px; color: #666; text-transform: uppercase; }
		.books { display: grid; gap: 15px; }
		.book { border: 1px solid #e0e0e0; border-radius: 8px; padding: 16px; }
		.book-title { font-size: 18px; font-weight: 600; }
		.book-meta { color: #666; font-size: 14px; }
		.tag { background: #e3f2fd; color: #1976d2; padding: 2px 10px; border-radius: 12px; font-size: 12px; margin-right: 6px; }
		.hint, .error { padding: 20px; color: #666; }
		.error { background: #fee; color: #c33; border-radius: 4px; }
	</style>
</head>
<body>
	<h1>Arc Bookvault</h1>

	<div class="stats">
		<div class="stat"><div class="stat-value" id="stat-total">-</div><div class="stat-label">Books</div></div>
		<div class="stat"><div class="stat-value" id="stat-authors">-</div><div class="stat-label">Authors</div></div>
		<div class="stat"><div class="stat-value" id="stat-tags">-</div><div class="stat-label">Tags</div></div>
	</div>

	<div class="controls">
		<input type="text" class="search-box" id="search" placeholder="Search titles, authors, ISBNs, notes, tags...">
		<select id="status">
			<option value="all">All</option>
			<option value="to-read">To Read</option>
			<option value="reading">Reading</option>
			<option value="read">Read</option>
		</select>
		<label><input type="checkbox" id="regex"> Regex</label>
		<label><input type="checkbox" id="ci" checked> Ignore case</label>
		<a href="/v1/export">Export</a>
	</div>

	<div class="books" id="books"><div class="hint">Loading...</div></div>

	<script>
		function escapeHtml(s) {
			var d = document.createElement('div');
			d.textContent = s == null ? '' : String(s);
			return d.innerHTML;
		}

		async function loadStats() {
			var res = await fetch('/v1/stats');
			var data = await res.json();
			document.getElementById('stat-total').textContent = data.search.total_books;
			document.getElementById('stat-authors').textContent = data.search.unique_authors;
			document.getElementById('stat-tags').textContent = data.search.unique_tags;
		}

		async function runSearch() {
			var params = new URLSearchParams({
				q: document.getElementById('search').value,
				status: document.getElementById('status').value,
				regex: document.getElementById('regex').checked,
				ci: document.getElementById('ci').checked
			});
			var container = document.getElementById('books');
			var res = await fetch('/v1/search?' + params);
			var data = await res.json();
			if (!res.ok) {
				container.innerHTML = '<div class="error">' + escapeHtml(data.error) + '</div>';
				return;
			}
			if (data.books.length === 0) {
				var msg = 'No books found';
				if (data.did_you_mean && data.did_you_mean.length) {
					msg += '. Did you mean: ' + data.did_you_mean.map(escapeHtml).join(', ') + '?';
				}
				container.innerHTML = '<div class="hint">' + msg + '</div>';
				return;
			}
			container.innerHTML = data.books.map(function(b) {
				var html = '<div class="book">';
				html += '<div class="book-title">' + escapeHtml(b.title) + '</div>';
				html += '<div class="book-meta">' + escapeHtml(b.author) + ' · ' + escapeHtml(b.status);
				if (b.rating) html += ' · ' + '★'.repeat(b.rating);
				html += '</div>';
				(b.tags || []).forEach(function(t) { html += '<span class="tag">' + escapeHtml(t) + '</span>'; });
				return html + '</div>';
			}).join('');
		}

		var timer;
		['search', 'status', 'regex', 'ci'].forEach(function(id) {
			document.getElementById(id).addEventListener('input', function() {
				clearTimeout(timer);
				timer = setTimeout(runSearch, 250);
			});
		});

		loadStats();
		runSearch();
	</script>
</body>
</html>
`
