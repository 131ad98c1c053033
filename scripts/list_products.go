package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"candlesync/pkg/coinbase"
)

// Standalone diagnostic: print the live product catalog.
// Usage: go run ./scripts [base_url]
func main() {
	opts := []coinbase.Option{}
	if len(os.Args) > 1 {
		opts = append(opts, coinbase.WithBaseURL(os.Args[1]))
	}
	client := coinbase.NewClient(opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := client.ListProducts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list products: %v\n", err)
		os.Exit(1)
	}
	for _, p := range products {
		fmt.Printf("%-16s %s/%s\t%s\n", p.ID, p.BaseCurrency, p.QuoteCurrency, p.Status)
	}
	fmt.Printf("%d products\n", len(products))
}
