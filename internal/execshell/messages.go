package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitCloneSubcommandNameConstant = "clone"
	gitPullSubcommandNameConstant  = "pull"
	dartCompileSubcommandConstant  = "compile"
	dartOutputFlagConstant         = "--output"
	dpkgDebBuildFlagConstant       = "--build"
	gpgDetachedSignFlagConstant    = "-abs"
	gpgClearsignFlagConstant       = "--clearsign"
)

const (
	gitCloneStartTemplateConstant               = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant             = "Cloned %s into %s"
	gitCloneFailureTemplateConstant             = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant    = "Unable to clone %s into %s: %s"
	gitPullStartTemplateConstant                = "Updating checkout in %s"
	gitPullSuccessTemplateConstant              = "Updated checkout in %s"
	gitPullFailureTemplateConstant              = "Failed to update checkout in %s (exit code %d%s)"
	gitPullExecutionFailureTemplateConstant     = "Unable to update checkout in %s: %s"
	dartCompileStartTemplateConstant            = "Compiling %s to %s"
	dartCompileSuccessTemplateConstant          = "Compiled %s to %s"
	dartCompileFailureTemplateConstant          = "Failed to compile %s to %s (exit code %d%s)"
	dartCompileExecutionFailureTemplateConstant = "Unable to compile %s to %s: %s"
	dpkgDebStartTemplateConstant                = "Building package %s in %s"
	dpkgDebSuccessTemplateConstant              = "Built package %s in %s"
	dpkgDebFailureTemplateConstant              = "Failed to build package %s in %s (exit code %d%s)"
	dpkgDebExecutionFailureTemplateConstant     = "Unable to build package %s in %s: %s"
	scanStartTemplateConstant                   = "Indexing packages in %s"
	scanSuccessTemplateConstant                 = "Indexed packages in %s"
	scanFailureTemplateConstant                 = "Failed to index packages in %s (exit code %d%s)"
	scanExecutionFailureTemplateConstant        = "Unable to index packages in %s: %s"
	gzipStartTemplateConstant                   = "Compressing %s in %s"
	gzipSuccessTemplateConstant                 = "Compressed %s in %s"
	gzipFailureTemplateConstant                 = "Failed to compress %s in %s (exit code %d%s)"
	gzipExecutionFailureTemplateConstant        = "Unable to compress %s in %s: %s"
	releaseStartTemplateConstant                = "Generating release summary in %s"
	releaseSuccessTemplateConstant              = "Generated release summary in %s"
	releaseFailureTemplateConstant              = "Failed to generate release summary in %s (exit code %d%s)"
	releaseExecutionFailureTemplateConstant     = "Unable to generate release summary in %s: %s"
	detachedSignStartTemplateConstant           = "Creating detached signature for %s in %s"
	detachedSignSuccessTemplateConstant         = "Created detached signature for %s in %s"
	detachedSignFailureTemplateConstant         = "Failed to create detached signature for %s in %s (exit code %d%s)"
	detachedSignExecutionFailureTemplate        = "Unable to create detached signature for %s in %s: %s"
	clearsignStartTemplateConstant              = "Clear-signing %s in %s"
	clearsignSuccessTemplateConstant            = "Clear-signed %s in %s"
	clearsignFailureTemplateConstant            = "Failed to clear-sign %s in %s (exit code %d%s)"
	clearsignExecutionFailureTemplateConstant   = "Unable to clear-sign %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandDart:
		return formatter.describeDartMessage(command, result, failure, stage)
	case CommandDpkgDeb:
		return formatter.describeDpkgDebMessage(command, result, failure, stage)
	case CommandDpkgScanPackages:
		return formatter.describeScanMessage(command, result, failure, stage)
	case CommandGzip:
		return formatter.describeGzipMessage(command, result, failure, stage)
	case CommandAptFtparchive:
		return formatter.describeReleaseMessage(command, result, failure, stage)
	case CommandGPG:
		return formatter.describeGPGMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitCloneSubcommandNameConstant:
		remoteURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
		destination := formatter.argumentAtIndex(arguments, 2)
		if len(strings.TrimSpace(destination)) == 0 {
			destination = workingDirectory
		}
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCloneStartTemplateConstant, remoteURL, destination)
		case messageStageSuccess:
			return fmt.Sprintf(gitCloneSuccessTemplateConstant, remoteURL, destination)
		case messageStageFailure:
			return fmt.Sprintf(gitCloneFailureTemplateConstant, remoteURL, destination, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, remoteURL, destination, formatter.describeFailure(failure))
		}
	case gitPullSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitPullStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitPullSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitPullFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitPullExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeDartMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || strings.TrimSpace(arguments[0]) != dartCompileSubcommandConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	sourcePath := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	outputPath := formatter.ensureValue(formatter.argumentAfterFlag(arguments, dartOutputFlagConstant))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(dartCompileStartTemplateConstant, sourcePath, outputPath)
	case messageStageSuccess:
		return fmt.Sprintf(dartCompileSuccessTemplateConstant, sourcePath, outputPath)
	case messageStageFailure:
		return fmt.Sprintf(dartCompileFailureTemplateConstant, sourcePath, outputPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(dartCompileExecutionFailureTemplateConstant, sourcePath, outputPath, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeDpkgDebMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	packageName := formatter.ensureValue(formatter.argumentAfterFlag(arguments, dpkgDebBuildFlagConstant))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(dpkgDebStartTemplateConstant, packageName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(dpkgDebSuccessTemplateConstant, packageName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(dpkgDebFailureTemplateConstant, packageName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(dpkgDebExecutionFailureTemplateConstant, packageName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeScanMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(scanStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(scanSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(scanFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(scanExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGzipMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	targetFile := fallbackUnknownValueLabelConstant
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) > 0 && !strings.HasPrefix(trimmedArgument, "-") {
			targetFile = trimmedArgument
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gzipStartTemplateConstant, targetFile, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gzipSuccessTemplateConstant, targetFile, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gzipFailureTemplateConstant, targetFile, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gzipExecutionFailureTemplateConstant, targetFile, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeReleaseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(releaseStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(releaseSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(releaseFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(releaseExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGPGMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	signedFile := fallbackUnknownValueLabelConstant
	if len(arguments) > 0 {
		signedFile = formatter.ensureValue(strings.TrimSpace(arguments[len(arguments)-1]))
	}

	if containsArgument(arguments, gpgClearsignFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(clearsignStartTemplateConstant, signedFile, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(clearsignSuccessTemplateConstant, signedFile, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(clearsignFailureTemplateConstant, signedFile, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(clearsignExecutionFailureTemplateConstant, signedFile, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if containsArgument(arguments, gpgDetachedSignFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(detachedSignStartTemplateConstant, signedFile, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(detachedSignSuccessTemplateConstant, signedFile, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(detachedSignFailureTemplateConstant, signedFile, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(detachedSignExecutionFailureTemplate, signedFile, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return commandLabel
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory))
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) argumentAfterFlag(arguments []string, flagName string) string {
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) == flagName && argumentIndex+1 < len(arguments) {
			return strings.TrimSpace(arguments[argumentIndex+1])
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func containsArgument(arguments []string, candidate string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == candidate {
			return true
		}
	}
	return false
}
