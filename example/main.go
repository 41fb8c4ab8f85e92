package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pthm/hxpage"
)

func main() {
	store := NewStore()

	settings := hxpage.DefaultSettings()
	if path := os.Getenv("HXPAGE_CONFIG"); path != "" {
		s, err := hxpage.LoadSettings(path)
		if err != nil {
			log.Fatal(err)
		}
		settings = s
	}

	// In production, use a real secret
	key := []byte("example-key-must-be-32-bytes!!")
	app := hxpage.NewApplication(key,
		hxpage.WithSettings(settings),
		hxpage.WithMessages(map[string]string{"app.title": "hxpage todos"}),
	)

	app.Mount("GET /{$}", homePage(store))
	app.Mount("GET /todo/{id}", detailPage(store))

	addr := ":8080"
	fmt.Printf("Starting server at http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, app.Handler()); err != nil {
		log.Fatal(err)
	}
}
