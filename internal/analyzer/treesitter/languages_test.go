package treesitter

import (
	"testing"

	"github.com/mvp-joe/project-outline/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for language tables:
// - Python: imports, top-level function, class, methods reclassified by decorator,
//   decorated element starts at its decorator
// - Rust: attributes move struct start, impl named "impl T", self/no-self methods
// - TypeScript: class members, static methods, const arrow functions via extension
// - Java: annotations as decorators, static methods, fields named by declarator
// - C: function names through declarators, struct bodies only
// - Ruby: classes, methods, top-level defs as functions, require as import
// - PHP: class, method, property named by $variable

const pythonSource = `import os
from typing import List


def helper(x):
    return x * 2


class Greeter:
    """Says hello."""

    def __init__(self, name):
        self.name = name

    @staticmethod
    def create():
        return Greeter("world")

    @property
    def title(self):
        return self.name.title()

    def greet(self):
        return "hi " + self.name
`

func extract(t *testing.T, lang, source string) analyzer.RawMapping {
	t.Helper()

	g, err := NewAnalyzer(lang)
	require.NoError(t, err)

	raw, err := g.Extract([]byte(source))
	require.NoError(t, err)
	return raw
}

func find(t *testing.T, raw analyzer.RawMapping, cat analyzer.Category, name string) analyzer.RawElement {
	t.Helper()

	for _, el := range raw[cat] {
		if el.Name == name {
			return el
		}
	}
	require.Failf(t, "element not found", "%s %q in %v", cat, name, raw[cat])
	return analyzer.RawElement{}
}

func TestPython_Structure(t *testing.T) {
	t.Parallel()

	raw := extract(t, "python", pythonSource)

	imports := raw[analyzer.Import]
	require.Len(t, imports, 2)
	assert.Equal(t, "import os", imports[0].Name)
	assert.Equal(t, 1, imports[0].Line)
	assert.Equal(t, "from typing import List", imports[1].Name)
	assert.Equal(t, 2, imports[1].Line)

	helper := find(t, raw, analyzer.Function, "helper")
	assert.Equal(t, 5, helper.Line)
	assert.Equal(t, 6, helper.EndLine)
	require.Len(t, raw[analyzer.Function], 1, "methods are not plain functions")

	class := find(t, raw, analyzer.Class, "Greeter")
	assert.Equal(t, 9, class.Line)
	assert.Equal(t, 24, class.EndLine)

	init := find(t, raw, analyzer.Method, "__init__")
	assert.Equal(t, 12, init.Line)
	assert.Equal(t, 13, init.EndLine)

	greet := find(t, raw, analyzer.Method, "greet")
	assert.Equal(t, 23, greet.Line)
	assert.Equal(t, 24, greet.EndLine)
}

func TestPython_Decorators(t *testing.T) {
	t.Parallel()

	raw := extract(t, "python", pythonSource)

	create := find(t, raw, analyzer.StaticMethod, "create")
	assert.Equal(t, 15, create.Line, "decorated element starts at its decorator")
	assert.Equal(t, 17, create.EndLine)
	assert.Equal(t, []string{"@staticmethod"}, create.Decorators)

	title := find(t, raw, analyzer.Property, "title")
	assert.Equal(t, 19, title.Line)
	assert.Equal(t, []string{"@property"}, title.Decorators)
}

func TestDecoratorName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "staticmethod", decoratorName("@staticmethod"))
	assert.Equal(t, "app.route", decoratorName("@app.route('/users')"))
	assert.Equal(t, "name.setter", decoratorName(" @name.setter "))
}

const rustSource = `use std::fmt;

#[derive(Debug)]
pub struct Point {
    x: i32,
}

impl Point {
    pub fn new(x: i32) -> Self {
        Point { x }
    }

    pub fn x(&self) -> i32 {
        self.x
    }
}

fn main() {}
`

func TestRust_Structure(t *testing.T) {
	t.Parallel()

	raw := extract(t, "rust", rustSource)

	point := find(t, raw, analyzer.Struct, "Point")
	assert.Equal(t, 3, point.Line, "attribute moves the start line")
	assert.Equal(t, 6, point.EndLine)
	assert.Equal(t, []string{"#[derive(Debug)]"}, point.Decorators)

	impl := find(t, raw, analyzer.Class, "impl Point")
	assert.Equal(t, 8, impl.Line)
	assert.Equal(t, 16, impl.EndLine)

	newFn := find(t, raw, analyzer.StaticMethod, "new")
	assert.Equal(t, 9, newFn.Line)
	assert.Equal(t, 11, newFn.EndLine)

	x := find(t, raw, analyzer.Method, "x")
	assert.Equal(t, 13, x.Line)

	main := find(t, raw, analyzer.Function, "main")
	assert.Equal(t, 18, main.Line)
	assert.Equal(t, 18, main.EndLine)

	require.Len(t, raw[analyzer.Import], 1)
	assert.Equal(t, "use std::fmt;", raw[analyzer.Import][0].Name)
}

const typeScriptSource = `import { a } from "./a";

export class Service {
  static create(): Service {
    return new Service();
  }

  run(): void {}
}

export const handler = () => {
  return 1;
};

function plain() {}
`

func TestTypeScript_Structure(t *testing.T) {
	t.Parallel()

	raw := extract(t, "typescript", typeScriptSource)

	service := find(t, raw, analyzer.Class, "Service")
	assert.Equal(t, 3, service.Line)
	assert.Equal(t, 9, service.EndLine)

	create := find(t, raw, analyzer.StaticMethod, "create")
	assert.Equal(t, 4, create.Line)
	assert.Equal(t, 6, create.EndLine)

	run := find(t, raw, analyzer.Method, "run")
	assert.Equal(t, 8, run.Line)

	handler := find(t, raw, analyzer.Function, "handler")
	assert.Equal(t, 11, handler.Line)
	assert.Equal(t, 13, handler.EndLine)

	plain := find(t, raw, analyzer.Function, "plain")
	assert.Equal(t, 15, plain.Line)

	require.Len(t, raw[analyzer.Import], 1)
	assert.Equal(t, 1, raw[analyzer.Import][0].Line)
}

func TestJavaScript_UsesTypeScriptGrammar(t *testing.T) {
	t.Parallel()

	raw := extract(t, "javascript", "function a() {}\nconst b = function () {};\n")

	find(t, raw, analyzer.Function, "a")
	b := find(t, raw, analyzer.Function, "b")
	assert.Equal(t, 2, b.Line)
}

const javaSource = `import java.util.List;

public class Repo {
    private int count, total;

    @Override
    public String toString() {
        return "repo";
    }

    public static Repo empty() {
        return new Repo();
    }
}
`

func TestJava_Structure(t *testing.T) {
	t.Parallel()

	raw := extract(t, "java", javaSource)

	repo := find(t, raw, analyzer.Class, "Repo")
	assert.Equal(t, 3, repo.Line)
	assert.Equal(t, 14, repo.EndLine)

	fields := find(t, raw, analyzer.Property, "count, total")
	assert.Equal(t, 4, fields.Line)

	toString := find(t, raw, analyzer.Method, "toString")
	assert.Equal(t, 6, toString.Line, "annotations are part of the declaration")
	assert.Equal(t, 9, toString.EndLine)
	assert.Equal(t, []string{"@Override"}, toString.Decorators)

	empty := find(t, raw, analyzer.StaticMethod, "empty")
	assert.Equal(t, 11, empty.Line)
}

const cSource = `#include <stdio.h>

struct point {
    int x;
};

struct point origin;

static int *make(int n) {
    return 0;
}
`

func TestC_Structure(t *testing.T) {
	t.Parallel()

	raw := extract(t, "c", cSource)

	require.Len(t, raw[analyzer.Struct], 1, "only the specifier with a body counts")
	point := raw[analyzer.Struct][0]
	assert.Equal(t, "point", point.Name)
	assert.Equal(t, 3, point.Line)
	assert.Equal(t, 5, point.EndLine)

	mk := find(t, raw, analyzer.Function, "make")
	assert.Equal(t, 9, mk.Line)
	assert.Equal(t, 11, mk.EndLine)

	require.Len(t, raw[analyzer.Import], 1)
	assert.Equal(t, "#include <stdio.h>", raw[analyzer.Import][0].Name)
}

const rubySource = `require "json"
require_relative "lib/helper"

module Shop
  class Cart
    def self.build
      new
    end

    def total
      0
    end
  end
end

def main
end
`

func TestRuby_Structure(t *testing.T) {
	t.Parallel()

	raw := extract(t, "ruby", rubySource)

	shop := find(t, raw, analyzer.Class, "Shop")
	assert.Equal(t, 4, shop.Line)
	assert.Equal(t, 14, shop.EndLine)

	cart := find(t, raw, analyzer.Class, "Cart")
	assert.Equal(t, 5, cart.Line)
	assert.Equal(t, 13, cart.EndLine)

	build := find(t, raw, analyzer.StaticMethod, "build")
	assert.Equal(t, 6, build.Line)

	total := find(t, raw, analyzer.Method, "total")
	assert.Equal(t, 10, total.Line)
	assert.Equal(t, 12, total.EndLine)

	main := find(t, raw, analyzer.Function, "main")
	assert.Equal(t, 16, main.Line)

	imports := raw[analyzer.Import]
	require.Len(t, imports, 2)
	assert.Equal(t, `require "json"`, imports[0].Name)
	assert.Equal(t, 2, imports[1].Line)
}

const phpSource = `<?php

use App\Models\User;

class UserService
{
    private $repo;

    public static function make()
    {
        return new self();
    }

    public function find($id)
    {
        return null;
    }
}
`

func TestPHP_Structure(t *testing.T) {
	t.Parallel()

	raw := extract(t, "php", phpSource)

	svc := find(t, raw, analyzer.Class, "UserService")
	assert.Equal(t, 5, svc.Line)
	assert.Equal(t, 18, svc.EndLine)

	repo := find(t, raw, analyzer.Property, "$repo")
	assert.Equal(t, 7, repo.Line)

	mk := find(t, raw, analyzer.StaticMethod, "make")
	assert.Equal(t, 9, mk.Line)
	assert.Equal(t, 12, mk.EndLine)

	f := find(t, raw, analyzer.Method, "find")
	assert.Equal(t, 14, f.Line)

	require.Len(t, raw[analyzer.Import], 1)
	assert.Equal(t, 3, raw[analyzer.Import][0].Line)
}
