package mcpserver

// QueryGrammar describes the JsonLogic expression language accepted by the
// obsidian_complex_search tool. The query is evaluated by the Local REST
// API plugin against every file; files for which it returns a truthy value
// are included in the results.
const QueryGrammar = `# Complex Search Query Grammar

Queries are JsonLogic objects: a nested mapping of operator to argument
list, evaluated per file. A file is returned when the expression is truthy.

## File variables

Access file fields with ` + "`" + `{"var": "<field>"}` + "`" + `:

- ` + "`" + `path` + "`" + ` - vault-relative file path (e.g. ` + "`" + `notes/todo.md` + "`" + `)
- ` + "`" + `content` + "`" + ` - full file content
- ` + "`" + `frontmatter.<key>` + "`" + ` - frontmatter fields
- ` + "`" + `stat.mtime` + "`" + `, ` + "`" + `stat.ctime` + "`" + `, ` + "`" + `stat.size` + "`" + ` - file metadata
- ` + "`" + `tags` + "`" + ` - list of tags

## Operators

- Equality and comparison: ` + "`" + `==` + "`" + `, ` + "`" + `!=` + "`" + `, ` + "`" + `<` + "`" + `, ` + "`" + `<=` + "`" + `, ` + "`" + `>` + "`" + `, ` + "`" + `>=` + "`" + `
- Boolean combinators: ` + "`" + `and` + "`" + `, ` + "`" + `or` + "`" + `, ` + "`" + `!` + "`" + `
- Membership: ` + "`" + `in` + "`" + `
- Glob pattern match: ` + "`" + `{"glob": ["<pattern>", {"var": "path"}]}` + "`" + `
- Regular expression match: ` + "`" + `{"regexp": ["<pattern>", {"var": "path"}]}` + "`" + `

## Examples

All Markdown files:

` + "```" + `json
{"glob": ["*.md", {"var": "path"}]}
` + "```" + `

Daily notes from 2025:

` + "```" + `json
{"regexp": ["2025-.*", {"var": "path"}]}
` + "```" + `

Files tagged project-x:

` + "```" + `json
{"in": ["project-x", {"var": "tags"}]}
` + "```" + `
`
