package tasks

import (
	"fmt"

	"github.com/systemstart/skillet-runner/pkg/process"
)

const terraformBin = "terraform"

// TerraformArgs returns the argument vector for a terraform subcommand.
// Variables become -var key=value pairs in key order. init and apply take
// no variables.
func TerraformArgs(subcommand string, vars map[string]string) ([]string, error) {
	args := []string{terraformBin, subcommand, "-no-color"}
	switch subcommand {
	case "validate", "refresh":
	case "init":
		return args, nil
	case "plan":
		args = append(args, "-out="+PlanFile)
	case "apply":
		return append(args, "-auto-approve", "./"+PlanFile), nil
	case "destroy":
		args = append(args, "-auto-approve")
	case "output":
		return append(args, "-json"), nil
	default:
		return nil, fmt.Errorf("unknown terraform subcommand %q", subcommand)
	}

	for _, k := range sortedKeys(vars) {
		args = append(args, "-var", fmt.Sprintf("%s=%s", k, vars[k]))
	}
	return args, nil
}

func (r *Runner) terraform(subcommand, dir string, vars map[string]string) (*process.Envelope, error) {
	args, err := TerraformArgs(subcommand, vars)
	if err != nil {
		return nil, err
	}
	c := process.Command{Args: args, Dir: dir}
	if subcommand == "output" {
		return r.run("terraform "+subcommand, c)
	}
	return r.stream("terraform "+subcommand, c)
}

// TerraformValidate streams terraform validate.
func (r *Runner) TerraformValidate(dir string, vars map[string]string) (*process.Envelope, error) {
	return r.terraform("validate", dir, vars)
}

// TerraformInit streams terraform init.
func (r *Runner) TerraformInit(dir string) (*process.Envelope, error) {
	return r.terraform("init", dir, nil)
}

// TerraformPlan streams terraform plan, saving the plan to PlanFile.
func (r *Runner) TerraformPlan(dir string, vars map[string]string) (*process.Envelope, error) {
	return r.terraform("plan", dir, vars)
}

// TerraformApply streams terraform apply of the saved plan.
func (r *Runner) TerraformApply(dir string) (*process.Envelope, error) {
	return r.terraform("apply", dir, nil)
}

// TerraformDestroy streams terraform destroy.
func (r *Runner) TerraformDestroy(dir string, vars map[string]string) (*process.Envelope, error) {
	return r.terraform("destroy", dir, vars)
}

// TerraformRefresh streams terraform refresh.
func (r *Runner) TerraformRefresh(dir string, vars map[string]string) (*process.Envelope, error) {
	return r.terraform("refresh", dir, vars)
}

// TerraformOutput runs terraform output -json and waits for it.
func (r *Runner) TerraformOutput(dir string) (*process.Envelope, error) {
	return r.terraform("output", dir, nil)
}
