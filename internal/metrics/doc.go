// Package metrics exports prometheus metrics for dispatched CPI actions:
// a counter by action and outcome, a latency histogram, and a counter of
// classified failures by error kind. All metrics live on a private registry
// exposed through Handler for scraping in serve mode.
package metrics
