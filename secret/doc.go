// Package secret expands environment references in configuration values.
//
// The dashboard API key and the SSE signing secret are typically supplied
// indirectly, e.g. MERAKI_API_KEY="${VAULT_MERAKI_KEY}", so a missing
// variable must fail loudly at startup rather than silently expanding to
// an empty credential.
package secret
