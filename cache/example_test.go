package cache_test

import (
	"fmt"

	"github.com/jonwraymond/merakiops/cache"
)

func ExampleNewMemory() {
	c := cache.NewMemory(cache.DefaultPolicy())

	key, _ := cache.Key("networks", "getNetwork", map[string]any{"networkId": "L_1"})
	c.Set(key, map[string]any{"name": "HQ"})

	value, ok := c.Get(key)
	if ok {
		fmt.Println("Hit:", value.(map[string]any)["name"])
	}
	// Output:
	// Hit: HQ
}

func ExampleMemory_Invalidate() {
	c := cache.NewMemory(cache.DefaultPolicy())

	k1, _ := cache.Key("networks", "getNetwork", map[string]any{"networkId": "L_1"})
	k2, _ := cache.Key("devices", "getDevice", map[string]any{"serial": "Q2XX"})
	c.Set(k1, "a")
	c.Set(k2, "b")

	// A write to the networks section drops only networks entries.
	removed := c.Invalidate("networks::")
	fmt.Println("Removed:", removed)
	fmt.Println("Remaining:", c.Stats().ItemCount)
	// Output:
	// Removed: 1
	// Remaining: 1
}
