// Program transforms composes rotation and frame transformation
// matrices from the command line and evaluates them.
package main

func main() {
	Execute()
}
