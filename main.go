package main

import (
	_ "github.com/newsdeskhq/newsdesk/src/admintools"
	_ "github.com/newsdeskhq/newsdesk/src/migration"
	"github.com/newsdeskhq/newsdesk/src/website"
)

func main() {
	website.WebsiteCommand.Execute()
}
