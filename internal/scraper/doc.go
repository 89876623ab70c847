// Package scraper fetches FBref statistics pages.
//
// A fetch first tries the primary transport, a plain resty client sending a
// browser-like header set. When the site answers 403 (its anti-bot check), the
// scraper switches once to the fallback transport, which wraps the HTTP
// transport with a Cloudflare bypass that mimics a Chrome TLS fingerprint.
// There is exactly one fallback and no backoff loop: any other failure is
// returned as a *stats.NetworkError.
package scraper
