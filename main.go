package main

import "github.com/KaramelBytes/telco-eda/cmd"

func main() {
	cmd.Execute()
}
