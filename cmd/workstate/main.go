// Command workstate validates, documents and draws state models.
package main

func main() {
	Execute()
}
