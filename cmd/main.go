package main

import (
	"fmt"
	"os"

	"github.com/ostafen/raidplan/cmd/cmd"
	"github.com/ostafen/raidplan/internal/env"
)

func main() {
	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println("           _     _       _              ")
	fmt.Println(" _ __ __ _(_) __| |_ __ | | __ _ _ __   ")
	fmt.Println("| '__/ _` | |/ _` | '_ \\| |/ _` | '_ \\  ")
	fmt.Println("| | | (_| | | (_| | |_) | | (_| | | | | ")
	fmt.Println("|_|  \\__,_|_|\\__,_| .__/|_|\\__,_|_| |_| ")
	fmt.Println("                  |_|                   ")
	fmt.Println()
	fmt.Println("RAID stripe request planner")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
