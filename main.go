// Command bookmerge turns a paginated web book into one bookmarked PDF.
package main

import "github.com/gaurav-prasanna/bookmerge/cmd"

func main() {
	cmd.Execute()
}
