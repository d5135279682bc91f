package deploy

import (
	"testing"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/stretchr/testify/assert"
)

func task(id, codeID, address string) *Task {
	return &Task{Step: configs.DeployStep{ID: id}, CodeID: codeID, ContractAddress: address}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		tasks    []*Task
		want     string
	}{
		{
			name:     "account address, contract address and code id",
			template: `{"a":"$account_id","b":"$s1","c":#s1}`,
			tasks:    []*Task{task("s1", "7", "X")},
			want:     `{"a":"ACC","b":"X","c":7}`,
		},
		{
			name:     "unresolved address becomes empty",
			template: `{"t":"$s2"}`,
			tasks:    []*Task{task("s2", "3", "")},
			want:     `{"t":""}`,
		},
		{
			name:     "unresolved code id stays",
			template: `{"c":#s3}`,
			tasks:    []*Task{task("s3", "", "")},
			want:     `{"c":#s3}`,
		},
		{
			name:     "unknown reference stays",
			template: `{"x":"$other"}`,
			tasks:    []*Task{task("s1", "1", "A")},
			want:     `{"x":"$other"}`,
		},
		{
			name:     "prefix collision replaces literally",
			template: `"$step1" "$step10"`,
			tasks:    []*Task{task("step1", "1", "A"), task("step10", "2", "B")},
			want:     `"A" "A0"`,
		},
		{
			name:     "every occurrence",
			template: `$s1 $s1 $account_id $account_id`,
			tasks:    []*Task{task("s1", "1", "A")},
			want:     `A A ACC ACC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.template, tt.tasks, "ACC"))
		})
	}
}

func TestResolveStrictRespectsTokenBoundaries(t *testing.T) {
	tasks := []*Task{task("step1", "1", "A"), task("step10", "2", "B")}

	assert.Equal(t, `"A" "B" #1 #2`, ResolveStrict(`"$step1" "$step10" #step1 #step10`, tasks, "ACC"))
	assert.Equal(t, `{"o":"ACC","x":"$account_ids"}`, ResolveStrict(`{"o":"$account_id","x":"$account_ids"}`, tasks, "ACC"))
	assert.Equal(t, `A`, ResolveStrict(`$step1`, tasks, "ACC"))
}

func TestResolverFor(t *testing.T) {
	tasks := []*Task{task("a", "1", "X"), task("ab", "2", "Y")}

	assert.Equal(t, "Xb", ResolverFor(false)("$ab", tasks, ""))
	assert.Equal(t, "Y", ResolverFor(true)("$ab", tasks, ""))
}
