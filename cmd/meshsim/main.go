// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command meshsim runs netlist designs from the command line or serves them
// over HTTP.
package main

func main() {
	Execute()
}
