package stack

import (
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// rule is a signature: when match holds, the field takes value.
type rule struct {
	value string
	match func(f *facts) bool
}

func depRule(value string, names ...string) rule {
	return rule{value: value, match: func(f *facts) bool { return f.hasDep(names...) }}
}

func fileRule(value string, names ...string) rule {
	return rule{value: value, match: func(f *facts) bool { return f.hasFile(names...) }}
}

// firstMatch returns the value of the first matching rule.
func firstMatch(rules []rule, f *facts) string {
	for _, r := range rules {
		if r.match(f) {
			return r.value
		}
	}
	return ""
}

// lastMatch evaluates every rule; each match overwrites the previous one.
func lastMatch(rules []rule, f *facts) string {
	value := ""
	for _, r := range rules {
		if r.match(f) {
			value = r.value
		}
	}
	return value
}

// allMatches returns every matching value once, in table order.
func allMatches(rules []rule, f *facts) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, r := range rules {
		if !seen[r.value] && r.match(f) {
			seen[r.value] = true
			out = append(out, r.value)
		}
	}
	return out
}

// frameworkRules is evaluated in order and later matches win, so a meta-framework
// listed after its base framework overrides it.
var frameworkRules = []rule{
	depRule("Express", "express"),
	depRule("Fastify", "fastify"),
	depRule("Koa", "koa"),
	depRule("NestJS", "@nestjs/core"),
	depRule("React", "react"),
	depRule("Vue.js", "vue"),
	depRule("Angular", "@angular/core"),
	depRule("Svelte", "svelte"),
	{value: "Next.js", match: func(f *facts) bool {
		return f.hasDep("next") || f.hasFile("next.config.js", "next.config.mjs", "next.config.ts")
	}},
	depRule("Nuxt.js", "nuxt", "nuxt3"),
	depRule("SvelteKit", "@sveltejs/kit"),
	depRule("Gatsby", "gatsby"),
	depRule("Remix", "@remix-run/react", "@remix-run/node"),
	{value: "Django", match: func(f *facts) bool {
		return f.hasDep("django") || f.hasFile("manage.py")
	}},
	depRule("Flask", "flask"),
	depRule("FastAPI", "fastapi"),
	{value: "Spring Boot", match: func(f *facts) bool {
		return f.hasDepContaining("spring-boot")
	}},
	depRule("Gin", "github.com/gin-gonic/gin"),
	depRule("Echo", "github.com/labstack/echo/v4", "github.com/labstack/echo"),
	depRule("Fiber", "github.com/gofiber/fiber/v2", "github.com/gofiber/fiber"),
	depRule("Actix Web", "actix-web"),
	depRule("Axum", "axum"),
	depRule("Rocket", "rocket"),
	depRule("Ruby on Rails", "rails"),
	depRule("Laravel", "laravel/framework"),
}

// packageManagerRules is a lockfile precedence list; the first match wins.
var packageManagerRules = []rule{
	fileRule("bun", "bun.lockb"),
	fileRule("pnpm", "pnpm-lock.yaml"),
	fileRule("yarn", "yarn.lock"),
	fileRule("npm", "package-lock.json"),
	fileRule("poetry", "poetry.lock"),
	fileRule("pipenv", "Pipfile.lock", "Pipfile"),
	fileRule("pip", "requirements.txt", "pyproject.toml"),
	fileRule("cargo", "Cargo.toml"),
	fileRule("go", "go.mod"),
	fileRule("maven", "pom.xml"),
	fileRule("gradle", "build.gradle", "build.gradle.kts"),
	fileRule("bundler", "Gemfile"),
	fileRule("composer", "composer.json"),
	fileRule("npm", "package.json"),
}

var buildToolRules = []rule{
	{value: "vite", match: func(f *facts) bool {
		return f.hasDep("vite") || f.hasFile("vite.config.js", "vite.config.ts", "vite.config.mjs")
	}},
	{value: "webpack", match: func(f *facts) bool {
		return f.hasDep("webpack") || f.hasFile("webpack.config.js")
	}},
	depRule("rollup", "rollup"),
	depRule("parcel", "parcel"),
	depRule("esbuild", "esbuild"),
	depRule("turbo", "turbo"),
	depRule("swc", "@swc/core"),
	depRule("tsc", "typescript"),
	fileRule("maven", "pom.xml"),
	fileRule("gradle", "build.gradle", "build.gradle.kts"),
	fileRule("cargo", "Cargo.toml"),
	fileRule("go", "go.mod"),
	{value: domain.BuildToolPyproject, match: func(f *facts) bool {
		return f.hasFile("pyproject.toml") && !f.hasFile("requirements.txt", "poetry.lock", "Pipfile", "Pipfile.lock")
	}},
}

var testFrameworkRules = []rule{
	depRule("jest", "jest"),
	depRule("vitest", "vitest"),
	depRule("mocha", "mocha"),
	depRule("jasmine", "jasmine"),
	depRule("cypress", "cypress"),
	depRule("playwright", "@playwright/test"),
	depRule("pytest", "pytest"),
	depRule("rspec", "rspec", "rspec-rails"),
	depRule("phpunit", "phpunit/phpunit"),
	{value: "junit", match: func(f *facts) bool { return f.hasDepContaining("junit") }},
	depRule("testify", "github.com/stretchr/testify"),
	{value: "go test", match: func(f *facts) bool { return f.language == "go" && f.hasSuffix("_test.go") }},
	{value: "cargo test", match: func(f *facts) bool { return f.language == "rust" && f.hasFile("Cargo.toml") }},
}

var lintingRules = []rule{
	{value: "eslint", match: func(f *facts) bool {
		return f.hasDep("eslint") || f.hasFile(".eslintrc", ".eslintrc.js", ".eslintrc.json", ".eslintrc.cjs", ".eslintrc.yml", "eslint.config.js", "eslint.config.mjs")
	}},
	{value: "prettier", match: func(f *facts) bool {
		return f.hasDep("prettier") || f.hasFile(".prettierrc", ".prettierrc.json", ".prettierrc.js", "prettier.config.js")
	}},
	depRule("tslint", "tslint"),
	depRule("stylelint", "stylelint"),
	{value: "flake8", match: func(f *facts) bool { return f.hasDep("flake8") || f.hasFile(".flake8") }},
	depRule("pylint", "pylint"),
	depRule("black", "black"),
	{value: "ruff", match: func(f *facts) bool { return f.hasDep("ruff") || f.hasFile("ruff.toml", ".ruff.toml") }},
	depRule("mypy", "mypy"),
	{value: "rubocop", match: func(f *facts) bool { return f.hasDep("rubocop") || f.hasFile(".rubocop.yml") }},
	fileRule("golangci-lint", ".golangci.yml", ".golangci.yaml"),
	fileRule("clippy", "clippy.toml", ".clippy.toml"),
}

var stylingRules = []rule{
	{value: "tailwindcss", match: func(f *facts) bool {
		return f.hasDep("tailwindcss") || f.hasFile("tailwind.config.js", "tailwind.config.ts", "tailwind.config.cjs")
	}},
	depRule("sass", "sass", "node-sass"),
	depRule("styled-components", "styled-components"),
	depRule("emotion", "@emotion/react", "@emotion/styled"),
	depRule("bootstrap", "bootstrap", "react-bootstrap"),
	depRule("material-ui", "@mui/material", "@material-ui/core"),
	depRule("chakra-ui", "@chakra-ui/react"),
}

var databaseRules = []rule{
	{value: domain.DatabasePostgres, match: func(f *facts) bool {
		return f.hasDep("pg", "pg-promise") || f.hasDepContaining("postgres", "psycopg", "asyncpg", "jackc/pgx", "lib/pq")
	}},
	{value: domain.DatabaseMongo, match: func(f *facts) bool {
		return f.hasDep("mongoose", "motor") || f.hasDepContaining("mongo")
	}},
	{value: domain.DatabaseRedis, match: func(f *facts) bool { return f.hasDepContaining("redis") }},
	{value: domain.DatabaseMySQL, match: func(f *facts) bool { return f.hasDepContaining("mysql") }},
	{value: domain.DatabaseSQLite, match: func(f *facts) bool { return f.hasDepContaining("sqlite") }},
}

// categoryKeywords is checked in order; the first category with a keyword equal to or
// contained in the dependency name wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{domain.CategoryTesting, []string{"jest", "mocha", "vitest", "pytest", "cypress", "playwright", "jasmine", "karma", "testing-library", "chai", "junit", "rspec", "phpunit", "testify", "supertest", "nose"}},
	{domain.CategoryLinting, []string{"eslint", "prettier", "tslint", "stylelint", "flake8", "pylint", "black", "ruff", "mypy", "rubocop", "golangci"}},
	{domain.CategoryStyling, []string{"tailwind", "sass", "styled-components", "emotion", "bootstrap", "postcss", "@mui", "chakra"}},
	{domain.CategoryBuild, []string{"webpack", "vite", "rollup", "parcel", "esbuild", "babel", "typescript", "turbo", "@swc", "gulp", "grunt"}},
	{domain.CategoryFramework, []string{"react", "vue", "angular", "svelte", "next", "nuxt", "express", "fastify", "koa", "nestjs", "django", "flask", "fastapi", "spring", "rails", "laravel", "gin-gonic", "labstack/echo", "gofiber", "actix", "axum", "rocket", "gatsby", "remix"}},
	{domain.CategoryHTTP, []string{"axios", "requests", "node-fetch", "superagent", "httpx", "reqwest", "urllib3", "aiohttp", "go-resty", "faraday", "guzzle"}},
	{domain.CategoryUtility, []string{"lodash", "moment", "dayjs", "date-fns", "uuid", "underscore", "ramda", "chalk", "dotenv"}},
}

// Categorize assigns a dependency name to a category, defaulting to "library".
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return domain.CategoryLibrary
}
