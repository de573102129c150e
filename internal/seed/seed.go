package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/config"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/overtime"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/repository"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/utils"
)

// 随机班次的候选时间段，覆盖纯日间、跨夜间溢价时段和纯夜间三类
var shiftCandidates = [][2]string{
	{"18:00", "20:00"},
	{"18:30", "21:30"},
	{"19:00", "22:00"},
	{"20:00", "23:00"},
	{"21:00", "23:30"},
	{"06:00", "08:00"},
	{"09:00", "12:00"},
}

// SeedDemoTeam 插入一个主管及其团队、n 个成员、覆盖当月的申报窗口和每个成员的若干条加班记录，
// 用于本地联调时快速得到一份有内容的审批列表和月度汇总。
func SeedDemoTeam(r *repository.Repository, cfg *config.Config, n int) {
	// 插入主管
	manager, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, domain.RoleManager)
	if err != nil {
		slog.Error("无法生成随机主管", "error", err)
		return
	}
	if err := r.CreateUser(manager); err != nil {
		slog.Error("无法插入主管", "error", err)
		return
	}

	// 插入团队
	team := &domain.Team{
		ManagerID: manager.ID,
		Name:      cfg.NewMember.TeamName,
	}
	if err := r.UpsertTeam(team); err != nil {
		slog.Error("无法插入团队", "error", err)
		return
	}

	month := time.Now().Format("2006-01")
	startDate, endDate := overtime.MonthRange(month)

	// 插入成员及其申报窗口和加班记录
	cnt := 0
	for i := 0; i < n; i++ {
		member, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, domain.RoleMember)
		if err != nil {
			slog.Error("无法生成随机成员", "error", err)
			continue
		}
		if err := r.CreateUser(member); err != nil {
			slog.Error("无法插入成员", "error", err)
			continue
		}
		if err := r.AddTeamMember(team.ID, member.ID); err != nil {
			slog.Error("无法插入团队成员关系", "error", err)
			continue
		}

		period := &domain.OvertimePeriod{
			UserID:            member.ID,
			StartDate:         startDate,
			EndDate:           endDate,
			OpenedByManagerID: manager.ID,
			Reason:            "联调数据",
		}
		if err := r.CreatePeriodIfDisjoint(period); err != nil {
			slog.Error("无法插入申报窗口", "error", err)
			continue
		}

		seedMemberEntries(r, member, month)
		cnt++
	}

	slog.Info("插入团队数据完成",
		"manager", manager.Username,
		"team_id", team.ID,
		"member_count", cnt,
	)
}

// 为成员在当月随机挑几天插入加班记录，状态随机
func seedMemberEntries(r *repository.Repository, member *domain.User, month string) {
	days := rand.Perm(28)[:rand.Intn(5)+3]
	statuses := []domain.EntryStatus{
		domain.EntryStatusPending,
		domain.EntryStatusApproved,
		domain.EntryStatusRejected,
	}

	for _, d := range days {
		date := fmt.Sprintf("%s-%02d", month, d+1)
		shift := shiftCandidates[rand.Intn(len(shiftCandidates))]
		isPublicHoliday := rand.Intn(10) == 0
		isDesignatedDayOff := !isPublicHoliday && rand.Intn(10) == 0

		split, err := overtime.Split(date, shift[0], shift[1], isPublicHoliday, isDesignatedDayOff)
		if err != nil {
			slog.Error("无法拆分加班分钟", "error", err)
			continue
		}

		entry := &domain.OvertimeEntry{
			UserID:             member.ID,
			Date:               date,
			StartTime:          shift[0],
			EndTime:            shift[1],
			Minutes150:         split.Minutes150,
			Minutes200:         split.Minutes200,
			IsPublicHoliday:    isPublicHoliday,
			IsDesignatedDayOff: isDesignatedDayOff,
			Note:               "联调数据",
			Status:             statuses[rand.Intn(len(statuses))],
		}
		if err := r.CreateEntry(entry); err != nil {
			slog.Error("无法插入加班记录", "error", err)
			continue
		}
	}
}
