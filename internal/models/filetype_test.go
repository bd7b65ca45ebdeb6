package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileType_Tasks(t *testing.T) {
	assert.Equal(t, FileTypeTasks, DetectFileType("project.tasks.yaml"))
	assert.Equal(t, FileTypeTasks, DetectFileType("work/backend.tasks.yaml"))
	assert.Equal(t, FileTypeTasks, DetectFileType(`work\backend.tasks.yaml`))
	assert.Equal(t, FileTypeTasks, DetectFileType("/abs/path/x.tasks.yaml"))
}

func TestDetectFileType_TasksRequiresNonEmptyStem(t *testing.T) {
	assert.Equal(t, FileTypeUnknown, DetectFileType("tasks.yaml"))
	assert.Equal(t, FileTypeUnknown, DetectFileType("dir/tasks.yaml"))
	assert.Equal(t, FileTypeTasks, DetectFileType("dir/a.tasks.yaml"))
}

func TestDetectFileType_Inbox(t *testing.T) {
	assert.Equal(t, FileTypeInbox, DetectFileType("me.inbox.yaml"))
	assert.Equal(t, FileTypeUnknown, DetectFileType("inbox.yaml"))
}

func TestDetectFileType_ManifestAndMeta(t *testing.T) {
	assert.Equal(t, FileTypeManifest, DetectFileType("kynetic.yaml"))
	assert.Equal(t, FileTypeManifest, DetectFileType("some/dir/kynetic.yaml"))
	assert.Equal(t, FileTypeMeta, DetectFileType("kynetic.meta.yaml"))
	assert.Equal(t, FileTypeMeta, DetectFileType("deep/kynetic.meta.yaml"))
	// Exact basename only: prefixed names match nothing.
	assert.Equal(t, FileTypeUnknown, DetectFileType("mykynetic.yaml"))
}

func TestDetectFileType_SpecModules(t *testing.T) {
	assert.Equal(t, FileTypeSpecModules, DetectFileType("spec/modules/core.yaml"))
	assert.Equal(t, FileTypeSpecModules, DetectFileType("modules/auth/login.yaml"))
	// "modules" must be a path segment, not a substring.
	assert.Equal(t, FileTypeUnknown, DetectFileType("spec/submodules/core.yaml"))
	// And the file itself must be YAML.
	assert.Equal(t, FileTypeUnknown, DetectFileType("modules/core.txt"))
}

func TestDetectFileType_ExactBasenameBeatsModulesSegment(t *testing.T) {
	assert.Equal(t, FileTypeManifest, DetectFileType("modules/kynetic.yaml"))
	assert.Equal(t, FileTypeMeta, DetectFileType("modules/kynetic.meta.yaml"))
	assert.Equal(t, FileTypeTasks, DetectFileType("modules/a.tasks.yaml"))
}

func TestDetectFileType_SuffixNearMisses(t *testing.T) {
	assert.Equal(t, FileTypeUnknown, DetectFileType("a.tasks.yaml.bak"))
	assert.Equal(t, FileTypeUnknown, DetectFileType("a.tasks.yml"))
	assert.Equal(t, FileTypeUnknown, DetectFileType("notes.md"))
	assert.Equal(t, FileTypeUnknown, DetectFileType(""))
}

func TestClassifyPath_ReportsMatchedRule(t *testing.T) {
	_, rule := ClassifyPath("spec/modules/core.yaml")
	assert.Contains(t, rule, "modules")

	_, rule = ClassifyPath("weird.bin")
	assert.Equal(t, "no rule matched", rule)
}
