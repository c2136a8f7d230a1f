/*
Package tabbar resolves declarative tab bar icon descriptors into
renderable, cached bitmaps with selection-dependent ring decoration and a
graceful system icon fallback.

A Registry owns the configured tab set, the selection, badges and
visibility. Image icons referenced by the configuration are resolved
asynchronously: the source is classified (inline base64 or remote HTTPS),
loaded through a deduplicating time-expiring cache, then composited
according to the requested shape, sizing mode and optional ring.

	package main

	import (
		"context"
		"fmt"

		"github.com/stayliquid/tabbar"
	)

	func main() {
		bar := tabbar.New()

		err := bar.Configure(context.Background(), tabbar.Config{
			Items: []tabbar.TabItem{
				{ID: "home", Title: "Home", SystemIcon: "house"},
				{ID: "profile", ImageIcon: &tabbar.IconSpec{
					Shape: tabbar.ShapeCircle,
					Image: "https://example.com/avatar.png",
					Ring:  &tabbar.RingSpec{Enabled: true},
				}},
			},
			InitialID: "home",
		})
		if err != nil {
			fmt.Printf("Error configuring the tab bar: %s", err.Error())
		}
	}
*/
package tabbar
