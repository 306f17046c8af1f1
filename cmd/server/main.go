package main // Entry point package

func main() {
	Execute()
}
