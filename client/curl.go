package client

import (
	"net/http"
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// curlCommand renders an attempt as a curl command line. The bearer token is masked.
func curlCommand(method Method, target string, header http.Header, spec RequestSpec) string {
	var cmd commandBuilder
	cmd.add("curl", "-X", string(method))

	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if spec.HasFile() && name == "Content-Type" {
			continue // curl -F sets its own boundary
		}
		for _, value := range header[name] {
			if name == "Authorization" && strings.HasPrefix(value, "Bearer ") {
				value = "Bearer ***"
			}
			cmd.add("-H", name+": "+value)
		}
	}

	if file, ok := spec.File(); ok {
		for _, field := range formFields(spec.Body()) {
			cmd.add("-F", field.name+"="+field.value)
		}
		cmd.add("-F", file.FieldName+"=@"+file.FileName)
	} else if !spec.Body().IsNull() {
		cmd.add("--data", spec.Body().JSONString())
	}

	cmd.add(target)
	return cmd.String()
}
