// Package browse implements the credential-less achievement-list strategy.
//
// When no Steam Web API key is configured, the authoritative achievement set
// is scraped from a third-party listing page that renders client-side, using
// a headless Chromium driven by go-rod. The rendered document is parsed with
// the same HTML tooling the donor scraper uses, and bare icon identifiers
// from the listing are expanded into full CDN URLs.
//
// The Lister is a drop-in substitute for the Web API schema adapter: both
// satisfy the same "list achievements for title" contract and the strategy
// is chosen once per run, never per title.
package browse
