package config

// Template is the manifest written by `apisect init`.
const Template = `# apisect manifest
[inputs]
# model of the assembly whose shape the output keeps
main = "models/main.json"
# models of the assemblies the result must also be valid against
references = []
# every top-level type these define is removed
exclude = []
# extra models used only to resolve references; the first is the core library
dependencies = []

[options]
keep_internal_constructors = false
keep_interop_attributes = false
strip_serializable = false
redirect_interop_marker = false
interop_redirect = ""
lenient = false

[lists]
blacklist = []
whitelist = []
member_removal_allow = []
explicit_type_allow = []
interop_attributes = []

[output]
path = ""
format = "json"

[load]
jobs = 0
cache = true
`
