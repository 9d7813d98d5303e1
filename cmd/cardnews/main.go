// Command cardnews runs the card-news web UI and provides CLI access
// to the render and publish pipeline.
//
// Configuration comes from the environment:
//
//	CARDNEWS_ADDR            listen address (default ":3000")
//	CARDNEWS_DB              SQLite path (default "data/cardnews.db")
//	CARDNEWS_ADMIN_PASSWORD  admin password (required for serve)
//	CARDNEWS_SESSION_SECRET  session secret (required for serve)
//	FIGMA_TOKEN              Figma personal access token
//	FIGMA_FILE_KEY           Figma file key
//	IMGBB_KEY                imgbb API key
//	META_APP_ID              Meta app ID (setup-token)
//	META_APP_SECRET          Meta app secret (setup-token)
package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "publish":
		err = runPublish(os.Args[2:])
	case "list-frames":
		err = runListFrames(os.Args[2:])
	case "setup-token":
		err = runSetupToken(os.Args[2:])
	case "version":
		fmt.Printf("cardnews %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cardnews - 카드뉴스 renderer and Instagram carousel publisher

Usage:
  cardnews <command> [arguments]

Commands:
  serve         Run the admin web UI
  render        Render a deck file to PNG slides
  publish       Render (or export from Figma) and publish a carousel
  list-frames   List Figma frame groups ready to publish
  setup-token   Exchange a short-lived Meta token and resolve accounts
  version       Print the cardnews version
  help          Show this help message

Examples:
  cardnews serve
  cardnews render -deck deck.json -template "다크 프리미엄" -out ./slides
  cardnews publish -deck deck.json -account brand -caption "오늘의 소식"
  cardnews publish -frames 250213 -account brand
  cardnews setup-token -short EAAB... -page-name "Brand Page"`)
}
