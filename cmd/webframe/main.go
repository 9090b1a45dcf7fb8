// Command webframe sends one HTTP request through httpclient and prints the
// response. It is a thin shell over the library for poking at APIs by hand.
//
//	webframe get users/2 --base https://reqres.in/api --api-key reqres-free-v1 --api-key-header x-api-key
//	webframe post users --base https://reqres.in/api --data '{"name":"neo","job":"the one"}'
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
