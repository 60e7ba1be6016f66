package main

import "github.com/shouni/go-article-enricher/cmd"

func main() {
	cmd.Execute()
}
