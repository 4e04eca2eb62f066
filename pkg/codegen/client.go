package codegen

import (
	"strings"

	"github.com/pauschar/pigweed/pkg/output"
	"github.com/pauschar/pigweed/pkg/schema"
)

// writeClientFunction emits one client call surface for a method: either the
// member function on the generated Client, or the equivalent static function
// taking the RPC client and channel as leading parameters. The two share
// parameter lists; the static version simply constructs a Client and
// delegates.
func writeClientFunction(out *output.File, method *schema.Method, callType string,
	params []string, startCall string, static bool) {
	signature := callType + " " + method.Name + "("
	if static {
		signature = "static " + signature
		params = append([]string{
			rpcNamespace + "::Client& client",
			"uint32_t channel_id",
		}, params...)
	}
	out.WriteLine(signature)

	done := out.Indent(4)
	for i, param := range params {
		if i < len(params)-1 {
			out.WriteLine(param + ",")
		} else {
			out.WriteLine(param + ") {")
		}
	}
	done()

	body := out.Indent()
	if static {
		out.WriteLinef("return Client(client, channel_id).%s(%s);",
			method.Name, strings.Join(forwardedArgs(params[2:]), ", "))
	} else {
		out.WriteLinef("return %s<%s>(", startCall, callType)
		out.WriteLinef("    client(), channel_id(), kServiceId, %s, %s);",
			methodIDLiteral(method), strings.Join(forwardedArgs(params), ", "))
	}
	body()

	out.WriteLine("}")
}

// forwardedArgs maps parameter declarations to the expressions that forward
// them: rvalue references are moved, everything else is passed through.
func forwardedArgs(params []string) []string {
	args := make([]string, len(params))
	for i, param := range params {
		decl, _, _ := strings.Cut(param, " = ")
		name := decl[strings.LastIndex(decl, " ")+1:]

		if strings.Contains(decl, "&&") {
			args[i] = "std::move(" + name + ")"
		} else {
			args[i] = name
		}
	}
	return args
}
