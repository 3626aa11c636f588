package web

import "html/template"

const headerHTML = `<header class="site-header">
  <a class="site-logo" href="/"><img src="/static/logo.svg" alt="모아모아" width="120" height="32"></a>
</header>`

const footerHTML = `<footer class="site-footer">
  <nav class="footer-nav">
    <a class="footer-nav__item" href="/"><span class="footer-nav__icon">🏠</span>홈</a>
    <button type="button" class="footer-nav__add" aria-label="추가" disabled>+</button>
    <a class="footer-nav__item" href="/login/"><span class="footer-nav__icon">👤</span>내 정보</a>
  </nav>
</footer>`

// Header returns the fixed site header with the logo.
func Header() template.HTML {
	return template.HTML(headerHTML) //nolint:gosec // constant markup
}

// Footer returns the fixed bottom navigation bar. The add button is a placeholder.
func Footer() template.HTML {
	return template.HTML(footerHTML) //nolint:gosec // constant markup
}
