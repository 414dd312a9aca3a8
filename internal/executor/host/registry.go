package host

// buildRegistry wires one pipeline per supported language tag. The map is
// built once at startup and only ever read afterwards, so lookups need no
// synchronization.
func buildRegistry(d *deps) map[string]pipeline {
	return map[string]pipeline{
		"python":     &interpreted{deps: d, fileName: "main.py", command: []string{"python3"}},
		"javascript": &interpreted{deps: d, fileName: "main.js", command: []string{"node"}},
		"c":          &compiled{deps: d, fileName: "main.c", compiler: "gcc"},
		"cpp":        &compiled{deps: d, fileName: "main.cpp", compiler: "g++"},
		"java":       &javaPipeline{deps: d},
		"kotlin":     &kotlinPipeline{deps: d},
		"rust":       &rustPipeline{deps: d},
		"sql":        &sqlPipeline{deps: d},
		"text":       textPipeline{},
	}
}
