// Package mcptools exposes the dispatcher over the Model Context
// Protocol. The surface is hybrid: a generic call_meraki_api tool
// reaching every registered operation, a dozen pre-registered
// convenience tools for the most common lookups, discovery tools for
// listing and searching operations, and administrative tools for the
// cache and the overflow store.
package mcptools
