package language

// rule matches when every marker in all is present and, if any is
// non-empty, at least one marker in any is present.
type rule struct {
	all []string
	any []string
}

// ruleset is the ordered list of rules for one language
type ruleset struct {
	language string
	rules    []rule
}

// rulesets is evaluated top to bottom and the first matching language
// wins. Order encodes priority: more distinctive languages come first so
// that generic markers (braces, "function", "#include") do not shadow them.
//
// Known limitation: plain C that includes a header is reported as cpp,
// because the cpp rules run first and "#include <" is shared.
var rulesets = []ruleset{
	{language: "swift", rules: []rule{
		{any: []string{"import SwiftUI", "import UIKit", "import Foundation", "@State ", "@Published "}},
		{all: []string{"func ", "->"}, any: []string{"guard let", "if let", "var body: some View"}},
	}},
	{language: "objectivec", rules: []rule{
		{any: []string{"#import <", "@interface ", "@implementation ", "NSString *", "[[NSObject alloc] init]"}},
	}},
	{language: "kotlin", rules: []rule{
		{any: []string{"fun main(", "val ", "data class "}, all: []string{"fun "}},
	}},
	{language: "go", rules: []rule{
		{any: []string{"package main", "func main()", "fmt.Println", "import (\n\t\""}},
		{all: []string{"func ", ":= "}},
	}},
	{language: "rust", rules: []rule{
		{any: []string{"fn main()", "let mut ", "println!(", "impl ", "pub fn ", "use std::"}},
	}},
	{language: "php", rules: []rule{
		{any: []string{"<?php", "$this->", "echo $"}},
	}},
	{language: "csharp", rules: []rule{
		{any: []string{"using System", "Console.WriteLine", "namespace "}, all: []string{";"}},
	}},
	{language: "java", rules: []rule{
		{any: []string{"public class ", "System.out.println", "public static void main", "import java."}},
	}},
	{language: "cpp", rules: []rule{
		{any: []string{"#include <iostream>", "std::", "cout <<", "template <", "#include <"}},
	}},
	{language: "c", rules: []rule{
		{any: []string{"#include", "printf(", "int main(", "malloc("}},
	}},
	{language: "typescript", rules: []rule{
		{any: []string{"interface ", ": string", ": number", ": boolean"}, all: []string{"=>"}},
		{any: []string{"import type ", "export type ", ": React.FC"}},
	}},
	{language: "javascript", rules: []rule{
		{any: []string{"console.log", "function ", "=> {", "const ", "let ", "require(", "document."}},
	}},
	{language: "python", rules: []rule{
		{any: []string{"def ", "import numpy", "print(", "self.", "elif ", "__init__"}, all: []string{":"}},
		{any: []string{"from __future__", "if __name__ =="}},
	}},
	{language: "ruby", rules: []rule{
		{all: []string{"def ", "end"}},
		{any: []string{"puts ", "require '", "attr_accessor"}},
	}},
	{language: "bash", rules: []rule{
		{any: []string{"#!/bin/bash", "#!/bin/sh", "#!/usr/bin/env bash", "sudo ", "apt-get ", "brew install", "echo $"}},
	}},
	{language: "sql", rules: []rule{
		{any: []string{"SELECT ", "INSERT INTO", "CREATE TABLE", "UPDATE ", "DELETE FROM", "select ", "insert into", "create table"}},
	}},
	{language: "html", rules: []rule{
		{any: []string{"<!DOCTYPE", "<html", "<div", "<body", "<span"}},
	}},
	{language: "css", rules: []rule{
		{all: []string{"{", "}", ";"}, any: []string{"color:", "margin:", "padding:", "display:", "font-size:"}},
	}},
	{language: "json", rules: []rule{
		{all: []string{"{", "\":"}},
	}},
	{language: "yaml", rules: []rule{
		{any: []string{"apiVersion:", "version: '", "services:\n", "- name:"}},
	}},
	{language: "dockerfile", rules: []rule{
		{all: []string{"FROM "}, any: []string{"RUN ", "CMD ", "COPY ", "ENTRYPOINT "}},
	}},
}

// displayNames maps language tags to human-readable names
var displayNames = map[string]string{
	"swift":      "Swift",
	"objectivec": "Objective-C",
	"kotlin":     "Kotlin",
	"go":         "Go",
	"rust":       "Rust",
	"php":        "PHP",
	"csharp":     "C#",
	"java":       "Java",
	"cpp":        "C++",
	"c":          "C",
	"typescript": "TypeScript",
	"javascript": "JavaScript",
	"python":     "Python",
	"ruby":       "Ruby",
	"bash":       "Shell",
	"sql":        "SQL",
	"html":       "HTML",
	"css":        "CSS",
	"json":       "JSON",
	"yaml":       "YAML",
	"dockerfile": "Dockerfile",
}

// aliases normalizes class-attribute spellings to detector tags
var aliases = map[string]string{
	"js":          "javascript",
	"jsx":         "javascript",
	"ts":          "typescript",
	"tsx":         "typescript",
	"py":          "python",
	"python3":     "python",
	"rb":          "ruby",
	"sh":          "bash",
	"shell":       "bash",
	"zsh":         "bash",
	"golang":      "go",
	"c++":         "cpp",
	"cc":          "cpp",
	"cs":          "csharp",
	"c#":          "csharp",
	"objc":        "objectivec",
	"objective-c": "objectivec",
	"kt":          "kotlin",
	"rs":          "rust",
	"yml":         "yaml",
	"docker":      "dockerfile",
	"htm":         "html",
}
