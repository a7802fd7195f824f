// Package render provides the "render page to HTML" capability used by
// structure discovery and page crawling.
//
// Two implementations exist behind the Renderer interface:
//
//   - HTTPRenderer fetches pages with a plain HTTP client. Fast and
//     sufficient for server-rendered pages.
//
//   - ChromeRenderer drives a headless Chrome via chromedp, either a
//     locally launched browser or a remote browser pool reached over
//     WebSocket. Required for catalog pages that assemble their content
//     in JavaScript.
//
// Egress proxy settings and browser pool tokens are passed in
// explicitly through configuration structs; this package never reads
// credentials from the environment.
package render
