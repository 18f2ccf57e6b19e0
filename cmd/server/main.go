package main // entry point; hands off to the cobra root command

func main() {
	Execute()
}
