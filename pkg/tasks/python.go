package tasks

import (
	"fmt"

	"github.com/systemstart/skillet-runner/pkg/process"
)

const (
	venvDir     = ".venv"
	venvPython  = "./" + venvDir + "/bin/python3"
	requirement = "requirements.txt"
)

var pythonEnv = map[string]string{"PYTHONUNBUFFERED": "1"}

// ScriptArgs returns the argument vector for running script with
// --key="value" arguments in key order. The quotes are removed by the shell
// the command runs in.
func ScriptArgs(interpreter, script string, args map[string]string) []string {
	argv := []string{interpreter, "-u", script}
	for _, k := range sortedKeys(args) {
		argv = append(argv, fmt.Sprintf("--%s=\"%s\"", k, args[k]))
	}
	return argv
}

func (r *Runner) python(name, dir string, args []string) (*process.Envelope, error) {
	return r.stream(name, process.Command{Args: args, Dir: dir, Env: pythonEnv})
}

// PythonInitEnv creates a virtualenv in dir.
func (r *Runner) PythonInitEnv(dir string) (*process.Envelope, error) {
	return r.python("python3 init", dir, []string{"python3", "-m", "virtualenv", venvDir})
}

// PythonInitWithDeps creates a virtualenv and installs requirements.txt
// into it.
func (r *Runner) PythonInitWithDeps(dir string) (*process.Envelope, error) {
	return r.python("python3 init with dependencies", dir, []string{
		"python3", "-m", "virtualenv", venvDir, "&&",
		venvPython, "-m", "pip", "install", "-r", requirement,
	})
}

// PythonInitExisting upgrades the requirements of an existing virtualenv.
func (r *Runner) PythonInitExisting(dir string) (*process.Envelope, error) {
	return r.python("python3 update dependencies", dir, []string{
		venvPython, "-m", "pip", "install", "--upgrade", "-r", requirement,
	})
}

// PythonExecuteScript runs script with the virtualenv's interpreter.
func (r *Runner) PythonExecuteScript(dir, script string, args map[string]string) (*process.Envelope, error) {
	return r.python("python3 "+script, dir, ScriptArgs(venvPython, script, args))
}

// PythonExecuteBareScript runs script with the python3 on PATH.
func (r *Runner) PythonExecuteBareScript(dir, script string, args map[string]string) (*process.Envelope, error) {
	return r.python("python3 "+script, dir, ScriptArgs("python3", script, args))
}
