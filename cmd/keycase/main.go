// keycase rewrites the object keys of JSON, YAML, TOML and INI documents into
// a single naming convention.
package main

import "github.com/thirteen37/keycase/internal/cmd"

func main() {
	cmd.Execute()
}
