// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-classfile/classfile"
)

var (
	all        bool
	verbose    bool
	cpool      bool
	thisClass  bool
	fields     bool
	methods    bool
	attrs      bool
	lenient    bool
)

func prettyPrint(v interface{}) string {
	buff, err := json.Marshal(v)
	if err != nil {
		log.Printf("JSON marshal error: %v", err)
		return ""
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buff, "", "\t"); err != nil {
		log.Printf("JSON indent error: %v", err)
		return string(buff)
	}
	return pretty.String()
}

func dump(cmd *cobra.Command, args []string) {
	filePath := args[0]

	f, err := classfile.New(filePath, &classfile.Options{Lenient: lenient})
	if err != nil {
		log.Fatalf("error opening %s: %v", filePath, err)
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		log.Fatalf("error parsing %s: %v", filePath, err)
	}

	if len(f.Anomalies) > 0 && verbose {
		for _, a := range f.Anomalies {
			log.Printf("anomaly: %s", a)
		}
	}

	if cpool || all {
		fmt.Println(prettyPrint(f.IR.CP))
	}
	if thisClass || all {
		fmt.Println(prettyPrint(f.IR.ThisClass))
		fmt.Println(prettyPrint(f.IR.SuperClass))
	}
	if fields || all {
		fmt.Println(prettyPrint(f.IR.Fields))
	}
	if methods || all {
		fmt.Println(prettyPrint(f.IR.Methods))
	}
	if attrs || all {
		fmt.Println(prettyPrint(f.IR.Attributes))
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "classdump",
		Short: "A JVM class file reader",
		Long:  "Reads a single .class file and prints its parsed structure as JSON",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("You are using version 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Dumps a class file",
		Long:  "Dumps the requested parts of one class file as JSON. Unlike a directory-walking dumper, this always operates on exactly one file.",
		Args:  cobra.ExactArgs(1),
		Run:   dump,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log anomalies found while parsing")
	dumpCmd.Flags().BoolVarP(&cpool, "cpool", "", false, "dump the constant pool")
	dumpCmd.Flags().BoolVarP(&thisClass, "class", "", false, "dump this_class/super_class")
	dumpCmd.Flags().BoolVarP(&fields, "fields", "", false, "dump fields")
	dumpCmd.Flags().BoolVarP(&methods, "methods", "", false, "dump methods")
	dumpCmd.Flags().BoolVarP(&attrs, "attributes", "", false, "dump class-level attributes")
	dumpCmd.Flags().BoolVarP(&all, "all", "", false, "dump everything")
	dumpCmd.Flags().BoolVarP(&lenient, "lenient", "", false, "tolerate unrecognized attributes instead of failing")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
