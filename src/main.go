package main

import (
	_ "git.retroherna.org/rh/rhforum/src/migration"
	"git.retroherna.org/rh/rhforum/src/website"
)

func main() {
	website.WebsiteCommand.Execute()
}
