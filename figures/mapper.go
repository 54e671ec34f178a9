package figures

import "taskmill/extract"

// MapToTasks attaches images to tasks in place. The primary pass
// re-scans each task's activity for figure references and attaches the
// image keyed to that figure number under the same assembly prefix.
// When the primary pass attaches nothing at all, images are spread
// evenly across the non-placeholder tasks in document order so that no
// document with images comes back with none visible.
func MapToTasks(tasks []extract.Task, images []Image, assemblyID string) {
	if len(tasks) == 0 || len(images) == 0 {
		return
	}

	byNumber := make(map[string]bool, len(images))
	for _, img := range images {
		byNumber[img.TaskNumber] = true
	}

	attached := false
	for i := range tasks {
		t := &tasks[i]
		if t.Placeholder() {
			continue
		}
		for _, ref := range FigureRefs(t.Activity) {
			num := extract.FormatTaskNumber(ref, assemblyID)
			if !byNumber[num] {
				continue
			}
			t.AddAttachment(num)
			attached = true
		}
	}
	if attached {
		return
	}

	eligible := make([]*extract.Task, 0, len(tasks))
	for i := range tasks {
		if !tasks[i].Placeholder() {
			eligible = append(eligible, &tasks[i])
		}
	}
	if len(eligible) == 0 {
		return
	}

	per := (len(images) + len(eligible) - 1) / len(eligible)
	for i := range images {
		eligible[i/per].AddAttachment(images[i].TaskNumber)
	}
}
